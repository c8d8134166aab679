package configuration

import "os"

// Census holds everything needed to talk to the census api. The api
// key is optional; most endpoints answer small request volumes fine
// without one.
type Census struct {
	ApiKey string `json:"api_key"`
}

// ResolveApiKey picks the api key to inject into endpoint
// construction: an explicit value wins, then censusops.json5, then the
// CENSUS_API_KEY environment variable. This is the only place the
// environment is consulted; the census package itself never is.
func ResolveApiKey(explicit string) string {
	if explicit != "" {
		return explicit
	}

	config, err := ReadRecursively[Census]("censusops.json5")
	if err == nil && config.ApiKey != "" {
		return config.ApiKey
	}

	return os.Getenv("CENSUS_API_KEY")
}
