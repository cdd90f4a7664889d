// Command imgimport copies images from directory into bolt database served by "bolt" collections.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"

	"github.com/aldor007/imgfind/pkg/monitoring"
	"github.com/aldor007/imgfind/pkg/resolver"
	"github.com/aldor007/imgfind/pkg/source"
)

func main() {
	dbPath := flag.String("db", "images.db", "Path to bolt database")
	bucket := flag.String("bucket", "images", "Bucket in which images are stored")
	dir := flag.String("dir", "", "Directory with images")
	flag.Parse()

	logger, err := monitoring.NewLogger("dev")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	monitoring.RegisterLogger(logger)
	defer logger.Sync()

	if *dir == "" {
		monitoring.Log().Fatal("Missing -dir flag")
	}

	db, err := bolt.Open(*dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		monitoring.Log().Fatal("Unable to open database", zap.String("db", *dbPath), zap.Error(err))
	}
	defer db.Close()

	store := source.NewBolt(db, []string{*bucket}, nil)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		monitoring.Log().Fatal("Unable to read directory", zap.String("dir", *dir), zap.Error(err))
	}

	imported := 0
	for _, e := range entries {
		if e.IsDir() || !resolver.IsImage(e.Name()) {
			continue
		}

		body, err := os.ReadFile(filepath.Join(*dir, e.Name()))
		if err != nil {
			monitoring.Log().Error("Unable to read image", zap.String("name", e.Name()), zap.Error(err))
			continue
		}

		if err := store.Put(*bucket, e.Name(), body); err != nil {
			monitoring.Log().Error("Unable to store image", zap.String("name", e.Name()), zap.Error(err))
			continue
		}
		imported++
	}

	monitoring.Log().Info("Import finished", zap.String("bucket", *bucket), zap.Int("count", imported))
}
