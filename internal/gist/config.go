package gist

import "strings"

const DefaultHost = "github.com"

type Config struct {
	// GitHub host, "github.com" or an enterprise host
	Host     string
	Username string
	Token    string

	// APIURL overrides the REST endpoint derived from Host
	APIURL string
}

func (c Config) apiURL() string {
	if c.APIURL != "" {
		if !strings.HasSuffix(c.APIURL, "/") {
			return c.APIURL + "/"
		}
		return c.APIURL
	}

	host := c.Host
	if host == "" {
		host = DefaultHost
	}

	return "https://api." + host + "/"
}
