package resulttypes

import "strings"

// MatrixKey returns the results matrix key of a load case for this result type.
func (c *Config) MatrixKey(loadCase string) string {
	return loadCase + c.DirectionSuffix
}

// StripKey removes the direction suffix from a matrix key. It reports false
// when the key belongs to another direction.
func (c *Config) StripKey(key string) (string, bool) {
	if c.DirectionSuffix == "" {
		return key, true
	}
	if !strings.HasSuffix(key, c.DirectionSuffix) {
		return "", false
	}
	return strings.TrimSuffix(key, c.DirectionSuffix), true
}

// ColumnName decodes a matrix key into a display column: the direction
// suffix is removed, then only the token after the last '_' is kept, so
// "160Wil_DES_TH01_X" becomes "TH01".
func (c *Config) ColumnName(key string) (string, bool) {
	stripped, ok := c.StripKey(key)
	if !ok {
		return "", false
	}
	return lastToken(stripped), true
}

func lastToken(s string) string {
	if i := strings.LastIndexByte(s, '_'); i >= 0 && i < len(s)-1 {
		return s[i+1:]
	}
	return s
}
