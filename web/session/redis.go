package session

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/otedola/cadastral/logger"
	"github.com/otedola/cadastral/util/common"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-contrib/sessions"
	"github.com/gorilla/securecookie"
	gorillasessions "github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "cadastral:session:"
	// lifetime of server-side values behind a browser-session cookie
	defaultRedisTTL = 24 * time.Hour
)

var errSessionNotFound = errors.New("session not found")

// OpenRedis connects to the Redis server at addr. An empty addr starts an
// embedded server instead. The returned func releases both.
func OpenRedis(ctx context.Context, addr string) (*redis.Client, func() error, error) {
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("start embedded redis: %w", err)
		}
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		logger.Info("Embedded Redis started on", mr.Addr())
		return client, func() error {
			err := client.Close()
			mr.Close()
			return err
		}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, nil, common.Combine(fmt.Errorf("connect redis at %s: %w", addr, err), client.Close())
	}
	logger.Info("Connected to Redis at", addr)
	return client, client.Close, nil
}

// RedisStore keeps session values in Redis; the cookie only carries the
// signed session id.
type RedisStore struct {
	client  *redis.Client
	codecs  []securecookie.Codec
	options sessions.Options
}

// NewRedisStore signs session ids with keyPairs.
func NewRedisStore(client *redis.Client, keyPairs ...[]byte) *RedisStore {
	return &RedisStore{
		client:  client,
		codecs:  securecookie.CodecsFromPairs(keyPairs...),
		options: sessions.Options{Path: "/"},
	}
}

func (s *RedisStore) Options(opts sessions.Options) {
	s.options = opts
}

func (s *RedisStore) Get(r *http.Request, name string) (*gorillasessions.Session, error) {
	return gorillasessions.GetRegistry(r).Get(s, name)
}

// New returns the session named by the request cookie, or a fresh one when
// the cookie is missing, forged or points at expired values.
func (s *RedisStore) New(r *http.Request, name string) (*gorillasessions.Session, error) {
	session := gorillasessions.NewSession(s, name)
	opts := s.options.ToGorillaOptions()
	session.Options = opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, s.codecs...); err != nil {
		return session, nil
	}
	if err := s.load(r.Context(), session); err == nil {
		session.IsNew = false
	} else if !errors.Is(err, errSessionNotFound) {
		logger.Warning("load session failed:", err)
	}
	return session, nil
}

func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *gorillasessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.client.Del(r.Context(), redisKeyPrefix+session.ID).Err(); err != nil {
				return err
			}
		}
		http.SetCookie(w, gorillasessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}
	if err := s.save(r.Context(), session); err != nil {
		return err
	}
	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, gorillasessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *RedisStore) save(ctx context.Context, session *gorillasessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session.Values); err != nil {
		return fmt.Errorf("encode session values: %w", err)
	}
	ttl := defaultRedisTTL
	if session.Options.MaxAge > 0 {
		ttl = time.Duration(session.Options.MaxAge) * time.Second
	}
	return s.client.Set(ctx, redisKeyPrefix+session.ID, buf.Bytes(), ttl).Err()
}

func (s *RedisStore) load(ctx context.Context, session *gorillasessions.Session) error {
	data, err := s.client.Get(ctx, redisKeyPrefix+session.ID).Bytes()
	if errors.Is(err, redis.Nil) {
		return errSessionNotFound
	} else if err != nil {
		return err
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&session.Values); err != nil {
		return fmt.Errorf("decode session values: %w", err)
	}
	return nil
}
