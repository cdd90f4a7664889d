package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/aldor007/imgfind/pkg/monitoring"
	"github.com/aldor007/imgfind/pkg/resolver"
)

// DefaultCollection is created when configuration doesn't declare any collection
const DefaultCollection = "images"

// DefaultSiteImages are returned by /site-images when no files are configured
var DefaultSiteImages = []string{
	"digital-art-style-mental-health-day-awareness-illustration.png",
	"gift_icon.jpg",
	"three_leaves.png",
	"whatsapp_icon.jpg",
}

// storageKinds is list of available storage kinds
var storageKinds = []string{"disk", "local", "s3", "http", "noop", "bolt"}

// reservedNames are routes which cannot be used as collection names
var reservedNames = []string{"site-images", "health", "metrics"}

// Config contains configuration of server, collections and site images
type Config struct {
	Server      Server                `yaml:"server"`
	Collections map[string]Collection `yaml:"collections"`
	SiteImages  SiteImages            `yaml:"siteImages"`
}

// Load reads config data from file
func (c *Config) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return errors.Wrap(err, "unable to load config file")
	}

	return c.load(data)
}

// LoadFromString parse configuration form string
func (c *Config) LoadFromString(data string) error {
	return c.load([]byte(data))
}

func (c *Config) load(data []byte) error {
	data = []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrap(err, "unable to parse config")
	}

	return c.validate()
}

// CollectionNames returns sorted names of collections
func (c *Config) CollectionNames() []string {
	names := make([]string, 0, len(c.Collections))
	for name := range c.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRoots returns directories searched by disk collections without own roots
func (c *Config) DefaultRoots() []string {
	roots := []string{
		filepath.Join(c.Server.WebRoot, "images"),
		filepath.Join(c.Server.ContentRoot, "wwwroot", "images"),
		filepath.Join(c.Server.ContentRoot, "Images"),
		filepath.Join(c.Server.ContentRoot, "assets", "images"),
	}

	for _, r := range c.Server.ExtraRoots {
		roots = append(roots, c.resolvePath(r))
	}

	return roots
}

func (c *Config) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}

	return filepath.Join(c.Server.ContentRoot, p)
}

func configInvalidError(msg string) error {
	monitoring.Logs().Warnw(msg)
	return errors.New(msg)
}

func (c *Config) validateServer() error {
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "prod"
	}

	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}

	if c.Server.InternalListen == "" {
		c.Server.InternalListen = ":8081"
	}

	if c.Server.InternalListen == c.Server.Listen {
		return configInvalidError("Server has invalid configuration internalListen and listen should have different address")
	}

	if c.Server.Environment == "" {
		c.Server.Environment = "Production"
	}

	if c.Server.ContentRoot == "" {
		c.Server.ContentRoot = "."
	}

	if abs, err := filepath.Abs(c.Server.ContentRoot); err == nil {
		c.Server.ContentRoot = abs
	}

	if c.Server.WebRoot == "" {
		c.Server.WebRoot = filepath.Join(c.Server.ContentRoot, "wwwroot")
	} else {
		c.Server.WebRoot = c.resolvePath(c.Server.WebRoot)
	}

	if prefix := strings.Trim(c.Server.PathPrefix, "/"); prefix != "" {
		c.Server.PathPrefix = "/" + prefix
	} else {
		c.Server.PathPrefix = ""
	}

	c.Server.PublicBaseURL = strings.TrimRight(c.Server.PublicBaseURL, "/")

	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 2 * time.Minute
	}

	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 2 * time.Minute
	}

	return nil
}

func (c *Config) validateStorage(name string, storage *Storage) error {
	if storage.Kind == "" {
		storage.Kind = "disk"
	}

	var err error
	errorMsgPrefix := fmt.Sprintf("%s has invalid config for source kind %s", name, storage.Kind)
	validKind := false
	for _, k := range storageKinds {
		if k == storage.Kind {
			validKind = true
			break
		}
	}

	if !validKind {
		return configInvalidError(fmt.Sprintf("%s has invalid source kind %s valid %s", name, storage.Kind, storageKinds))
	}

	switch storage.Kind {
	case "local", "bolt":
		if storage.RootPath == "" {
			err = configInvalidError(fmt.Sprintf("%s - no rootPath", errorMsgPrefix))
		} else {
			storage.RootPath = c.resolvePath(storage.RootPath)
		}
	case "http":
		if storage.Url == "" {
			err = configInvalidError(fmt.Sprintf("%s - no url", errorMsgPrefix))
		}
	case "s3":
		if storage.AccessKey == "" {
			err = configInvalidError(fmt.Sprintf("%s - no accessKey", errorMsgPrefix))
		}

		if storage.SecretAccessKey == "" {
			err = configInvalidError(fmt.Sprintf("%s - no secretAccessKey", errorMsgPrefix))
		}
	}

	if storage.Kind != "disk" && storage.Kind != "bolt" && storage.Bucket == "" {
		storage.Bucket = name
	}

	return err
}

func (c *Config) validateCollection(name string, collection *Collection) error {
	if name == "" || strings.ContainsAny(name, "/\\{}*") || name == "." || name == ".." {
		return configInvalidError(fmt.Sprintf("invalid collection name %q", name))
	}

	for _, r := range reservedNames {
		if r == name {
			return configInvalidError(fmt.Sprintf("collection name %s is reserved", name))
		}
	}

	if err := c.validateStorage(name, &collection.Source); err != nil {
		return err
	}

	switch collection.Source.Kind {
	case "disk":
		if len(collection.Roots) == 0 {
			collection.Roots = c.DefaultRoots()
		} else {
			for i, r := range collection.Roots {
				collection.Roots[i] = c.resolvePath(r)
			}
		}
	case "bolt":
		if len(collection.Roots) == 0 {
			collection.Roots = []string{name}
		}
	default:
		if len(collection.Roots) == 0 {
			collection.Roots = []string{""}
		}
	}

	if len(collection.Extensions) == 0 {
		collection.Extensions = append([]string{}, resolver.DefaultExtensions...)
	}

	for i, ext := range collection.Extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		collection.Extensions[i] = ext
	}

	collection.Name = name
	return nil
}

func (c *Config) validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if len(c.Collections) == 0 {
		c.Collections = map[string]Collection{DefaultCollection: {}}
	}

	for name, collection := range c.Collections {
		if err := c.validateCollection(name, &collection); err != nil {
			return err
		}
		c.Collections[name] = collection
	}

	if c.SiteImages.Collection == "" {
		c.SiteImages.Collection = DefaultCollection
		if _, ok := c.Collections[DefaultCollection]; !ok {
			c.SiteImages.Collection = c.CollectionNames()[0]
		}
	}

	if _, ok := c.Collections[c.SiteImages.Collection]; !ok {
		return configInvalidError(fmt.Sprintf("siteImages collection %s doesn't exist", c.SiteImages.Collection))
	}

	if len(c.SiteImages.Files) == 0 {
		c.SiteImages.Files = append([]string{}, DefaultSiteImages...)
	}

	return nil
}
