package store

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/matzehuels/arbor/pkg/errors"
)

// Open returns the store addressed by location, wrapped with [Observe]:
//
//	""                         file store in the default data directory
//	"file:///path/dir", "dir"  file store in dir
//	"sqlite:///path/docs.db"   SQLite database (also plain "*.db", "*.sqlite")
//	"redis://host:6379/0"      Redis (also "rediss://")
//	"mongodb://host/dbname"    MongoDB (also "mongodb+srv://")
func Open(ctx context.Context, location string) (Store, error) {
	backend, s, err := open(ctx, location)
	if err != nil {
		return nil, err
	}
	return Observe(backend, s), nil
}

func open(ctx context.Context, location string) (string, Store, error) {
	scheme, rest, hasScheme := strings.Cut(location, "://")
	if !hasScheme {
		switch strings.ToLower(filepath.Ext(location)) {
		case ".db", ".sqlite", ".sqlite3":
			s, err := NewSQLiteStore(ctx, location)
			return "sqlite", s, err
		}
		s, err := NewFileStore(location)
		return "file", s, err
	}

	switch strings.ToLower(scheme) {
	case "file":
		s, err := NewFileStore(rest)
		return "file", s, err
	case "sqlite":
		s, err := NewSQLiteStore(ctx, rest)
		return "sqlite", s, err
	case "redis", "rediss":
		s, err := NewRedisStoreFromURL(ctx, location)
		return "redis", s, err
	case "mongodb", "mongodb+srv":
		u, err := url.Parse(location)
		if err != nil {
			return "", nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse mongodb url")
		}
		s, err := NewMongoStore(ctx, location, strings.TrimPrefix(u.Path, "/"))
		return "mongo", s, err
	default:
		return "", nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported store %q", scheme)
	}
}
