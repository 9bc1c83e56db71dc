package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fitness-records/internal/config"
)

const staleUsersKey = "cache_stale_users"

// MarkStale asks the cache to drop cached reads of another user once the
// current request succeeds.  Admin handlers call it for the account they
// changed; the caller's own entries are always dropped after a write.
func MarkStale(c echo.Context, userID uint64) {
	ids, _ := c.Get(staleUsersKey).([]uint64)
	c.Set(staleUsersKey, append(ids, userID))
}

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size < cw.limit {
		remain := cw.limit - cw.size
		if cw.limit <= 0 {
			cw.buf.Write(b)
		} else if remain > 0 {
			if int64(len(b)) <= remain {
				cw.buf.Write(b)
			} else {
				cw.buf.Write(b[:remain])
			}
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

func versionKey(prefix, uid string) string {
	return prefix + ":ver:" + uid
}

// cacheKeyFrom scopes an entry to the user and their current version, then
// hashes the parts that select a representation.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context, uid string, version int64) string {
	r := c.Request()
	tail := strings.Join([]string{r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get(echo.HeaderAccept)}, "\n")
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:u:%s:v%d:%x", cfg.Prefix, uid, version, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	var hdr http.Header
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
			return 0, nil, nil, false
		}
	} else {
		hdr = make(http.Header)
	}
	return status, hdr, bs[8+hlen:], true
}

func cacheable(status int, header http.Header) bool {
	return status == http.StatusOK && strings.Contains(header.Get(echo.HeaderCacheControl), "max-age")
}

// NewRedisCache serves repeated reads of the same user from Redis.  Only
// responses the handler marked cacheable (Cache-Control max-age) are stored,
// and any successful write by a user moves that user to a new version so
// their older entries are never read again.  It must run after Authenticate.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, log logrus.FieldLogger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	maxBody := int64(cfg.MaxBodyBytes)

	bump := func(uid string) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rdb.Incr(ctx, versionKey(cfg.Prefix, uid)).Err(); err != nil {
			log.WithError(err).WithField("user_id", uid).Warn("cache: version bump failed")
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := userID(c)
			if uid == "guest" {
				return next(c)
			}
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				err := next(c)
				if err == nil && c.Response().Status < 300 {
					bump(uid)
					if ids, ok := c.Get(staleUsersKey).([]uint64); ok {
						for _, id := range ids {
							bump(strconv.FormatUint(id, 10))
						}
					}
				}
				return err
			}

			ctx := c.Request().Context()
			version, err := rdb.Get(ctx, versionKey(cfg.Prefix, uid)).Int64()
			if err != nil && !errors.Is(err, redis.Nil) {
				log.WithError(err).Warn("cache: version lookup failed")
				return next(c)
			}
			key := cacheKeyFrom(cfg, c, uid, version)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, echo.HeaderContentLength) {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			// Miss: capture
			orig := c.Response().Writer
			cw := &captureWriter{ResponseWriter: orig, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			defer func() { c.Response().Writer = orig }()
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if !cacheable(cw.status, c.Response().Header()) || (maxBody > 0 && cw.size > maxBody) {
				return nil
			}
			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
				_ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
			}
			return nil
		}
	}
}
