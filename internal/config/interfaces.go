package config

import "netsynth/internal/models"

// IProvider is the interface for loading topology files
//
//go:generate mockery --name=IProvider --output=./mocks
type IProvider interface {
	ParseTopology(configPath string) (*models.Topology, error)
}
