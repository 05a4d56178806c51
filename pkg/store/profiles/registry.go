package profiles

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// DBProfile carries the connection settings of one source database. DSN
// assembly is left to the driver-specific store packages.
type DBProfile struct {
	Host     string
	Port     int
	Service  string
	Database string
	User     string
	Password string
}

// Registry exposes the source-database profiles from an ini credentials
// file, one section per source ([gam], [easily]).
type Registry interface {
	GetProfiles() ([]string, error)
	GetProfile(name string) (*DBProfile, error)
}

type registry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &registry{cfg: cfg}, nil
}

func (r *registry) GetProfiles() ([]string, error) {
	var profiles []string
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (r *registry) GetProfile(name string) (*DBProfile, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found", name)
	}

	port, err := section.Key("port").Int()
	if err != nil {
		return nil, fmt.Errorf("profile %s: invalid port: %w", name, err)
	}

	p := &DBProfile{
		Host:     section.Key("host").String(),
		Port:     port,
		Service:  section.Key("service").String(),
		Database: section.Key("database").String(),
		User:     section.Key("user").String(),
		Password: section.Key("password").String(),
	}
	if p.Host == "" || p.User == "" {
		return nil, fmt.Errorf("profile %s is missing host or user", name)
	}
	return p, nil
}
