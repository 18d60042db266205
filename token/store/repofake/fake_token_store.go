package storefake

import (
	"sync"

	"github.com/jrsteele09/go-auth-client/token"
	"github.com/jrsteele09/go-auth-client/token/store"
)

var _ store.Repo = (*FakeTokenStore)(nil)

type FakeTokenStore struct {
	entries map[string]string
	lock    sync.RWMutex

	SaveErr  error // returned by Save when set
	LoadErr  error // returned by Load when set
	ClearErr error // returned by Clear when set
}

func NewFakeTokenStore() *FakeTokenStore {
	return &FakeTokenStore{entries: make(map[string]string)}
}

func (f *FakeTokenStore) Save(creds token.Credentials) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.lock.Lock()
	defer f.lock.Unlock()

	if access := creds.AccessToken(); access != "" {
		f.entries["access_token"] = access
	}
	if refresh := creds.RefreshToken(); refresh != "" {
		f.entries["refresh_token"] = refresh
	}
	return nil
}

func (f *FakeTokenStore) Load() (token.Credentials, error) {
	if f.LoadErr != nil {
		return token.Credentials{}, f.LoadErr
	}
	f.lock.RLock()
	defer f.lock.RUnlock()

	creds := token.Credentials{
		Access:  f.entries["access_token"],
		Refresh: f.entries["refresh_token"],
	}
	if !creds.Complete() {
		return token.Credentials{}, nil
	}
	return creds, nil
}

func (f *FakeTokenStore) Clear() error {
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.lock.Lock()
	defer f.lock.Unlock()

	delete(f.entries, "access_token")
	delete(f.entries, "refresh_token")
	return nil
}

// Entry reports the raw stored value for a key, for asserting partial-update
// semantics in tests.
func (f *FakeTokenStore) Entry(key string) (string, bool) {
	f.lock.RLock()
	defer f.lock.RUnlock()
	v, ok := f.entries[key]
	return v, ok
}
