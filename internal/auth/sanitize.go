package auth

// SanitizeUser returns a shallow copy of a user record with password material
// removed. The input map is never mutated.
func SanitizeUser(record map[string]any) map[string]any {
	sanitized := make(map[string]any, len(record))
	for k, v := range record {
		switch k {
		case "password", "password_hash":
			continue
		}
		sanitized[k] = v
	}
	return sanitized
}
