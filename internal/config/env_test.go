package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAPIKeys(t *testing.T) {
	testCases := []struct {
		name          string
		openaiKey     string
		expectError   bool
		errorContains string
	}{
		{
			name:        "valid OpenAI key",
			openaiKey:   "sk-1234567890abcdef1234567890abcdef",
			expectError: false,
		},
		{
			name:          "invalid OpenAI key format",
			openaiKey:     "invalid-key",
			expectError:   true,
			errorContains: "invalid OpenAI API key format",
		},
		{
			name:          "OpenAI key too short",
			openaiKey:     "sk-short",
			expectError:   true,
			errorContains: "too short",
		},
		{
			name:        "empty key is allowed",
			openaiKey:   "",
			expectError: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", tc.openaiKey)

			apiKeys, err := GetAPIKeys()

			if tc.expectError {
				assert.Error(t, err)
				if tc.errorContains != "" {
					assert.Contains(t, err.Error(), tc.errorContains)
				}
			} else {
				assert.NoError(t, err)
				require.NotNil(t, apiKeys)
				assert.Equal(t, tc.openaiKey, apiKeys.OpenAI)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STREAMSHIELD_TEST_VALUE=from-dotenv\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	os.Unsetenv("STREAMSHIELD_TEST_VALUE")
	defer os.Unsetenv("STREAMSHIELD_TEST_VALUE")

	require.NoError(t, LoadEnv())
	assert.Equal(t, "from-dotenv", os.Getenv("STREAMSHIELD_TEST_VALUE"))
}

func TestGetProjectRoot(t *testing.T) {
	root, err := GetProjectRoot()
	require.NoError(t, err)
	assert.NotEmpty(t, root)

	_, err = os.Stat(filepath.Join(root, "go.mod"))
	assert.NoError(t, err, "go.mod should exist in project root")
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("STREAMSHIELD_SET", "  value ")
	t.Setenv("STREAMSHIELD_BLANK", "   ")

	assert.Equal(t, "value", getEnvOrDefault("STREAMSHIELD_SET", "fallback"))
	assert.Equal(t, "fallback", getEnvOrDefault("STREAMSHIELD_BLANK", "fallback"))
	assert.Equal(t, "fallback", getEnvOrDefault("STREAMSHIELD_UNSET_FOR_TEST", "fallback"))
}
