package market

// withDefault returns a copy of config with key set to value.
func withDefault(config map[string]interface{}, key string, value interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(config)+1)
	for k, v := range config {
		out[k] = v
	}
	out[key] = value
	return out
}
