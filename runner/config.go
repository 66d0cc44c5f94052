package runner

import "strconv"

// ConfigMap carries the bag of parameters and environment values the host
// runner hands to an action. An empty value counts as absent.
type ConfigMap struct {
	Parameters map[string]string
}

func (c *ConfigMap) GetString(key string) string {
	return c.Parameters[key]
}

func (c *ConfigMap) GetStringWithDefault(key string, defaultValue string) string {
	if v := c.Parameters[key]; v != "" {
		return v
	}

	return defaultValue
}

func (c *ConfigMap) GetBool(key string) bool {
	v, err := strconv.ParseBool(c.Parameters[key])
	if err != nil {
		return false
	}

	return v
}

func (c *ConfigMap) GetIntWithDefault(key string, defaultValue int) int {
	v, err := strconv.Atoi(c.Parameters[key])
	if err != nil {
		return defaultValue
	}

	return v
}
