package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wostzone/wot-consume/pkg/security"
)

// credentialEntry is the on-disk representation of one CredentialStore
// entry. Kind selects which Credentials struct Fields is decoded into;
// unknown kinds fail the load rather than silently becoming NoCredentials.
type credentialEntry struct {
	HrefPrefix string `yaml:"hrefPrefix"`
	Kind       string `yaml:"kind"`
	Username   string `yaml:"username,omitempty"`
	Password   string `yaml:"password,omitempty"`
	Token      string `yaml:"token,omitempty"`
	Name       string `yaml:"name,omitempty"`
	In         string `yaml:"in,omitempty"`
	Value      string `yaml:"value,omitempty"`
}

type credentialFile struct {
	Credentials []credentialEntry `yaml:"credentials"`
}

func decodeCredential(e credentialEntry) (security.Credentials, error) {
	switch e.Kind {
	case "basic":
		return security.BasicCredentials{Username: e.Username, Password: e.Password}, nil
	case "bearer":
		return security.BearerCredentials{Token: e.Token}, nil
	case "apikey":
		return security.APIKeyCredentials{Name: e.Name, In: e.In, Value: e.Value}, nil
	case "nosec", "":
		return security.NoCredentials{}, nil
	default:
		return nil, fmt.Errorf("config: unsupported credential kind %q for href prefix %q", e.Kind, e.HrefPrefix)
	}
}

// LoadCredentialStoreFile parses path as YAML and returns the equivalent
// entries map, keyed by hrefPrefix, ready for security.CredentialStore.Replace.
func LoadCredentialStoreFile(path string) (map[string]security.Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file credentialFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	entries := make(map[string]security.Credentials, len(file.Credentials))
	for _, e := range file.Credentials {
		creds, err := decodeCredential(e)
		if err != nil {
			return nil, err
		}
		entries[e.HrefPrefix] = creds
	}
	return entries, nil
}
