package store

import (
	"github.com/jrsteele09/go-auth-client/token"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

const (
	credentialsBucket = "credentials"
	accessTokenKey    = "access_token"
	refreshTokenKey   = "refresh_token"
)

// Bolt implements Repo backed by a bbolt database.
type Bolt struct {
	db *bbolt.DB
}

var _ Repo = (*Bolt)(nil)

// NewBolt returns a Repo backed by the given bbolt database.
func NewBolt(db *bbolt.DB) *Bolt {
	return &Bolt{db: db}
}

// NewBoltFromFile opens a bbolt database at the given path and returns a new Repo.
func NewBoltFromFile(path string, options *bbolt.Options) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, errors.Wrap(err, "[NewBoltFromFile] bbolt.Open")
	}
	return NewBolt(db), nil
}

// Close closes the underlying bbolt database.
func (s *Bolt) Close() error {
	return s.db.Close()
}

func (s *Bolt) Save(creds token.Credentials) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(credentialsBucket))
		if err != nil {
			return errors.Wrap(err, "[Bolt.Save] CreateBucketIfNotExists")
		}
		if access := creds.AccessToken(); access != "" {
			if err := b.Put([]byte(accessTokenKey), []byte(access)); err != nil {
				return errors.Wrap(err, "[Bolt.Save] put access token")
			}
		}
		if refresh := creds.RefreshToken(); refresh != "" {
			if err := b.Put([]byte(refreshTokenKey), []byte(refresh)); err != nil {
				return errors.Wrap(err, "[Bolt.Save] put refresh token")
			}
		}
		return nil
	})
}

func (s *Bolt) Load() (token.Credentials, error) {
	var creds token.Credentials
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(credentialsBucket))
		if b == nil {
			return nil
		}
		creds.Access = string(b.Get([]byte(accessTokenKey)))
		creds.Refresh = string(b.Get([]byte(refreshTokenKey)))
		return nil
	})
	if err != nil {
		return token.Credentials{}, errors.Wrap(err, "[Bolt.Load] view")
	}
	if !creds.Complete() {
		return token.Credentials{}, nil
	}
	return creds, nil
}

func (s *Bolt) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(credentialsBucket))
		if b == nil {
			return nil
		}
		if err := b.Delete([]byte(accessTokenKey)); err != nil {
			return errors.Wrap(err, "[Bolt.Clear] delete access token")
		}
		if err := b.Delete([]byte(refreshTokenKey)); err != nil {
			return errors.Wrap(err, "[Bolt.Clear] delete refresh token")
		}
		return nil
	})
}
