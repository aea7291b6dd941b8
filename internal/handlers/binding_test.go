package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type bindTarget struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    bindTarget
		expectError bool
	}{
		{
			name:     "Nested Structure",
			key:      "client",
			body:     `{"client": {"name": "Panadería San Juan", "amount": 1500}}`,
			expected: bindTarget{Name: "Panadería San Juan", Amount: 1500},
		},
		{
			name:     "Flat Structure",
			key:      "client",
			body:     `{"name": "Ferretería Central", "amount": 900}`,
			expected: bindTarget{Name: "Ferretería Central", Amount: 900},
		},
		{
			name:     "Missing Key Falls Back To Flat",
			key:      "client",
			body:     `{"other": "value", "name": "Kiosco Norte", "amount": 400}`,
			expected: bindTarget{Name: "Kiosco Norte", Amount: 400},
		},
		{
			name:     "Different Wrapper Key",
			key:      "payment",
			body:     `{"payment": {"name": "REC-1", "amount": 250}}`,
			expected: bindTarget{Name: "REC-1", Amount: 250},
		},
		{
			name:        "Invalid Flat Content",
			key:         "client",
			body:        `{"name": "X", "amount": "invalid"}`,
			expectError: true,
		},
		{
			name:        "Invalid Nested Content",
			key:         "client",
			body:        `{"client": {"name": "X", "amount": "invalid"}}`,
			expectError: true,
		},
		{
			name:        "Nested Key With Wrong Type",
			key:         "client",
			body:        `{"client": "some string"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result bindTarget
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}
