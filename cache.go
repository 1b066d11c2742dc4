package query

import (
	"context"
	"reflect"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// CacheManager stores query results by key. A local implementation must copy
// values on Get and Set so callers cannot modify cached data.
type CacheManager[T any] interface {
	Get(ctx context.Context, key string) (T, bool, error)
	Set(ctx context.Context, key string, value T) error
	Delete(ctx context.Context, key string) error
}

type cacheKey struct{}

// CacheConfig configures caching of one query. T must be the result type of
// the cached call, e.g. []*model.Member for Fetch.
type CacheConfig[T any] struct {
	Manager CacheManager[T]
	Key     string
	// CacheNil caches empty results too.
	CacheNil     bool
	QueryTimeOut time.Duration
	// BeforeInvocation evicts before the statement runs instead of after.
	BeforeInvocation bool
	flightGroup      singleflight.Group
}

func getCacheInterceptor(ctx context.Context) InterceptorHandler {
	if ctx == nil {
		return nil
	}

	handler, _ := ctx.Value(cacheKey{}).(InterceptorHandler)
	return handler
}

// CacheableCtx returns a ctx whose statements are answered from the cache,
// loading and storing on a miss. Concurrent misses for one key share a load.
func CacheableCtx[T any](ctx context.Context, cfg *CacheConfig[T]) context.Context {
	return context.WithValue(ctx, cacheKey{}, InterceptorHandler(func(option *ExecOption, next Handler) (any, error) {
		return cacheableHandler(cfg, option, next)
	}))
}

// CacheEvictCtx returns a ctx whose statements evict the key.
func CacheEvictCtx[T any](ctx context.Context, cfg *CacheConfig[T]) context.Context {
	return context.WithValue(ctx, cacheKey{}, InterceptorHandler(func(option *ExecOption, next Handler) (any, error) {
		return cacheEvictInterceptor(cfg, option, next)
	}))
}

type result struct {
	data any
	err  error
}

func cacheableHandler[T any](cfg *CacheConfig[T], option *ExecOption, next Handler) (any, error) {
	if cfg.Key == "" {
		return nil, errors.New("query: empty cache key")
	}

	// 1、查询缓存
	val, exist, err := cfg.Manager.Get(option.Ctx, cfg.Key)
	if err != nil {
		return nil, errors.Wrapf(err, "get cache %s", cfg.Key)
	}
	if exist {
		return val, nil
	}

	v, err, _ := cfg.flightGroup.Do(cfg.Key, func() (any, error) {
		ctx := option.Ctx
		if cfg.QueryTimeOut > 0 {
			c, cancel := context.WithTimeout(ctx, cfg.QueryTimeOut)
			ctx = c
			defer cancel()
		}
		resCh := make(chan result, 1)

		go func() {
			// 2、缓存不存在, 查询数据库
			val, err := next(option)
			if err != nil {
				resCh <- result{nil, err}
				return
			}

			obj, empty, err := cacheValue[T](val)
			if err != nil {
				resCh <- result{nil, errors.Wrapf(err, "cache %s", cfg.Key)}
				return
			}
			if empty && !cfg.CacheNil {
				resCh <- result{val, nil}
				return
			}

			// 3、写入缓存
			if err := cfg.Manager.Set(option.Ctx, cfg.Key, obj); err != nil {
				resCh <- result{nil, errors.Wrapf(err, "set cache %s", cfg.Key)}
				return
			}
			resCh <- result{val, nil}
		}()

		select {
		case <-ctx.Done():
			return nil, errors.Errorf("query db timeout, key: %s", cfg.Key)
		case res := <-resCh:
			return res.data, res.err
		}
	})

	return v, err
}

// cacheValue extracts the value to cache from a statement result, which is
// either T or, for GetContext and SelectContext, the *T destination.
func cacheValue[T any](val any) (obj T, empty bool, err error) {
	switch v := val.(type) {
	case nil:
		return obj, true, nil
	case T:
		obj = v
	case *T:
		if v == nil {
			return obj, true, nil
		}
		obj = *v
	default:
		return obj, false, errors.Errorf("query: cannot cache %T as %T", val, obj)
	}

	rv := reflect.ValueOf(obj)
	switch rv.Kind() {
	case reflect.Invalid:
		empty = true
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		empty = rv.IsNil()
	}
	return obj, empty, nil
}

// withoutCache hides the cache interceptor of ctx from the statements run
// with the returned ctx.
func withoutCache(ctx context.Context) context.Context {
	if getCacheInterceptor(ctx) == nil {
		return ctx
	}
	return context.WithValue(ctx, cacheKey{}, InterceptorHandler(nil))
}

func cacheEvictInterceptor[T any](cfg *CacheConfig[T], option *ExecOption, next Handler) (any, error) {
	// 先删缓存
	if cfg.BeforeInvocation {
		if err := cfg.Manager.Delete(option.Ctx, cfg.Key); err != nil {
			return nil, errors.Wrapf(err, "evict cache %s", cfg.Key)
		}
	}

	// 再更新数据
	res, err := next(option)
	if err != nil {
		return nil, err
	}

	if !cfg.BeforeInvocation {
		if err := cfg.Manager.Delete(option.Ctx, cfg.Key); err != nil {
			return nil, errors.Wrapf(err, "evict cache %s", cfg.Key)
		}
	}

	return res, nil
}
