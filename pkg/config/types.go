package config

import "time"

// Storage describes where images of collection are kept
type Storage struct {
	Kind            string            `yaml:"kind"`                      // one of storageKinds, default "disk"
	RootPath        string            `yaml:"rootPath,omitempty"`        // root path for local storage, database file for bolt
	Bucket          string            `yaml:"bucket,omitempty"`          // container name for stow storages
	Url             string            `yaml:"url,omitempty"`             // Url for http storage
	Headers         map[string]string `yaml:"headers,omitempty"`         // request headers for http storage
	AccessKey       string            `yaml:"accessKey,omitempty"`       // access key for s3 storage
	SecretAccessKey string            `yaml:"secretAccessKey,omitempty"` // SecretAccessKey for s3 storage
	Region          string            `yaml:"region,omitempty"`          // region for s3 storage
	Endpoint        string            `yaml:"endpoint,omitempty"`        // endpoint for s3 storage
	PathPrefix      string            `yaml:"pathPrefix,omitempty"`      // prefix added to every key
}

// Collection is named set of roots exposed under /{name}
type Collection struct {
	Roots      []string `yaml:"roots"`
	Extensions []string `yaml:"extensions"`
	Source     Storage  `yaml:"source"`
	Name       string   `yaml:"-"`
}

// SiteImages configures fixed list of images returned by /site-images
type SiteImages struct {
	Collection string   `yaml:"collection"`
	Files      []string `yaml:"files"`
}

// Server configure HTTP server
type Server struct {
	LogLevel       string        `yaml:"logLevel"`
	AccessLog      bool          `yaml:"accessLogs"`
	Listen         string        `yaml:"listen"`
	InternalListen string        `yaml:"internalListen"`
	PathPrefix     string        `yaml:"pathPrefix"`
	PublicBaseURL  string        `yaml:"publicBaseURL"`
	Environment    string        `yaml:"environment"`
	ContentRoot    string        `yaml:"contentRoot"`
	WebRoot        string        `yaml:"webRoot"`
	ExtraRoots     []string      `yaml:"extraRoots"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
}
