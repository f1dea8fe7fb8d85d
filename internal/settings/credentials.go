package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	SectionCheevos = "Cheevos"

	KeyUsername       = "Username"
	KeyToken          = "Token"
	KeyLoginTimestamp = "LoginTimestamp"
)

type Credentials struct {
	Username       string
	Token          string
	LoginTimestamp time.Time
}

func (c Credentials) Valid() bool {
	return c.Username != "" && c.Token != ""
}

// LoadCredentials returns the zero Credentials and no error when nothing is stored.
func LoadCredentials(ctx context.Context, s Store) (Credentials, error) {
	var creds Credentials
	for key, dst := range map[string]*string{KeyUsername: &creds.Username, KeyToken: &creds.Token} {
		v, err := s.Get(ctx, SectionCheevos, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return Credentials{}, err
		}
		*dst = v
	}

	ts, err := s.Get(ctx, SectionCheevos, KeyLoginTimestamp)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return Credentials{}, err
	default:
		secs, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return Credentials{}, fmt.Errorf("parsing %s: %w", KeyLoginTimestamp, err)
		}
		creds.LoginTimestamp = time.Unix(secs, 0)
	}
	return creds, nil
}

func SaveCredentials(ctx context.Context, s Store, creds Credentials) error {
	if err := s.Set(ctx, SectionCheevos, KeyUsername, creds.Username); err != nil {
		return err
	}
	if err := s.Set(ctx, SectionCheevos, KeyToken, creds.Token); err != nil {
		return err
	}
	ts := strconv.FormatInt(creds.LoginTimestamp.Unix(), 10)
	if err := s.Set(ctx, SectionCheevos, KeyLoginTimestamp, ts); err != nil {
		return err
	}
	return s.Commit(ctx)
}

func DeleteCredentials(ctx context.Context, s Store) error {
	for _, key := range []string{KeyUsername, KeyToken, KeyLoginTimestamp} {
		if err := s.Delete(ctx, SectionCheevos, key); err != nil {
			return err
		}
	}
	return s.Commit(ctx)
}
