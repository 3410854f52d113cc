package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSensitiveKey(t *testing.T) {
	sensitive := []string{
		"payload_key", "PAYLOAD_KEY", "api-token", "db_pass", "password",
		"jwt_secret", "AUTH_HEADER", "credentials", "tls_cert", "JWT",
	}
	for _, name := range sensitive {
		assert.True(t, IsSensitiveKey(name), name)
	}

	benign := []string{"server_name", "port", "web_root", "interfaces"}
	for _, name := range benign {
		assert.False(t, IsSensitiveKey(name), name)
	}
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "super…", MaskValue("supersecretvalue"))
	assert.Equal(t, "abc", MaskValue("abc"))
	assert.Equal(t, "12345", MaskValue("12345"))
	assert.Equal(t, "12345…", MaskValue("123456"))
}

func TestMaskValueMultibyte(t *testing.T) {
	assert.Equal(t, "ührgé…", MaskValue("ührgéheimnisvoll"))
}

func TestMaskIfSensitive(t *testing.T) {
	assert.Equal(t, "super…", MaskIfSensitive("payload_key", "supersecretvalue"))
	assert.Equal(t, "supersecretvalue", MaskIfSensitive("server_name", "supersecretvalue"))
}
