package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// DerefStr returns the pointed-to string, or "" for nil.
func DerefStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
