package server

import (
	"github.com/KYD-04/Home-Files/config"
	"github.com/KYD-04/Home-Files/internal/share/api"
)

const (
	AdminProfileName  = "admin"
	PublicProfileName = "public"
)

// Profile is one independently bound listener and the operations it exposes
type Profile struct {
	Name         string
	Addr         string
	Capabilities []api.Capability
}

// AdminProfile is the loopback listener with the full capability set
func AdminProfile(cfg config.ListenerConfig) Profile {
	return Profile{
		Name:         AdminProfileName,
		Addr:         cfg.Addr(),
		Capabilities: api.AdminCapabilities,
	}
}

// PublicProfile is the network-facing listener without registry mutation
func PublicProfile(cfg config.ListenerConfig) Profile {
	return Profile{
		Name:         PublicProfileName,
		Addr:         cfg.Addr(),
		Capabilities: api.PublicCapabilities,
	}
}
