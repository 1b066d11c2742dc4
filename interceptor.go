package query

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type Handler func(option *ExecOption) (any, error)
type InterceptorHandler func(option *ExecOption, next Handler) (any, error)

// interceptors belongs to a Factory and is shared with the transactions it
// begins.
type interceptors struct {
	mu        sync.RWMutex
	execute   []InterceptorHandler
	sqlDebug  InterceptorHandler
	slowQuery InterceptorHandler
}

type interceptorKey struct{}

// WithInterceptors attaches extra interceptors to statements run with ctx.
func WithInterceptors(ctx context.Context, handlers ...InterceptorHandler) context.Context {
	if existing, ok := ctx.Value(interceptorKey{}).([]InterceptorHandler); ok {
		handlers = append(append([]InterceptorHandler(nil), existing...), handlers...)
	}
	return context.WithValue(ctx, interceptorKey{}, handlers)
}

// Invoke runs execHandler through the interceptor chain of f.
func Invoke[T any](f *Factory, option *ExecOption, execHandler func() (T, error)) (T, error) {
	if option.Ctx == nil {
		option.Ctx = context.Background()
	}
	// 构建拦截器链
	interceptorChain := f.chain.build(option)
	if interceptorChain == nil {
		return execHandler()
	}

	// 创建最终的执行处理器
	finalHandler := func(option *ExecOption) (any, error) {
		return execHandler()
	}

	// 执行拦截器链
	res, err := interceptorChain(option, finalHandler)
	if err != nil {
		return *new(T), err
	}
	if res == nil {
		return *new(T), nil
	}

	v, ok := res.(T)
	if !ok {
		return *new(T), errors.Errorf("query: interceptor returned %T, want %T", res, *new(T))
	}
	return v, nil
}

// build 构建拦截器链
func (c *interceptors) build(option *ExecOption) InterceptorHandler {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// 从上下文中获取额外的拦截器
	extraInterceptors, _ := option.Ctx.Value(interceptorKey{}).([]InterceptorHandler)

	interceptors := make([]InterceptorHandler, 0, len(c.execute)+len(extraInterceptors)+3)

	// 获取缓存interceptor
	if cacheInterceptor := getCacheInterceptor(option.Ctx); cacheInterceptor != nil {
		interceptors = append(interceptors, cacheInterceptor)
	}

	// 1. SQL调试拦截器
	if c.sqlDebug != nil {
		interceptors = append(interceptors, c.sqlDebug)
	}

	// 2. 自定义拦截器
	interceptors = append(interceptors, c.execute...)
	interceptors = append(interceptors, extraInterceptors...)

	// 3. 慢查询日志拦截器最后执行
	if c.slowQuery != nil {
		interceptors = append(interceptors, c.slowQuery)
	}

	if len(interceptors) == 0 {
		return nil
	}

	return chainInterceptors(interceptors)
}

// chainInterceptors 将多个拦截器链接成一个
func chainInterceptors(interceptors []InterceptorHandler) InterceptorHandler {
	return func(option *ExecOption, finalHandler Handler) (any, error) {
		return interceptors[0](option, getChainHandler(interceptors, 0, finalHandler))
	}
}

// getChainHandler 获取下一个拦截器
func getChainHandler(interceptors []InterceptorHandler, curr int, finalHandler Handler) Handler {
	if curr == len(interceptors)-1 {
		return finalHandler
	}

	return func(option *ExecOption) (any, error) {
		return interceptors[curr+1](option, getChainHandler(interceptors, curr+1, finalHandler))
	}
}

type DebugLogger interface {
	Debug(format string, args ...any)
}

// SqlDebugInterceptor logs every statement and its parameters.
func SqlDebugInterceptor(logger DebugLogger) InterceptorHandler {
	return func(option *ExecOption, next Handler) (any, error) {
		logger.Debug("SQL        ==> %s", option.SqlStmt)
		logger.Debug("PARAMETERS ==> %s", FormatArgs(option.Args))

		return next(option)
	}
}

// FormatArgs renders bind arguments with their types, e.g. string("a"), int(1).
func FormatArgs(args []any) string {
	builder := strings.Builder{}
	for i, arg := range args {
		switch a := arg.(type) {
		case string:
			builder.WriteString(fmt.Sprintf("%T(%q)", a, a))
		case time.Time:
			builder.WriteString(fmt.Sprintf("DATETIME(%s)", a.Format(time.DateTime)))
		case *time.Time:
			if a != nil {
				builder.WriteString(fmt.Sprintf("DATETIME(%v)", a.Format(time.DateTime)))
			}
		case nil:
			builder.WriteString("NULL")
		default:
			builder.WriteString(fmt.Sprintf("%T(%v)", arg, arg))
		}
		if i != len(args)-1 {
			builder.WriteString(", ")
		}
	}

	return builder.String()
}

// SlowQueryLoggingInterceptor reports successful statements slower than limit.
func SlowQueryLoggingInterceptor(limit time.Duration, loggerFunc func(used time.Duration, sql string)) InterceptorHandler {
	return func(option *ExecOption, next Handler) (any, error) {
		start := time.Now()
		resp, err := next(option)
		if err != nil {
			return resp, err
		}

		if used := time.Since(start); used > limit {
			loggerFunc(used, option.SqlStmt)
		}

		return resp, nil
	}
}

func WithSqlDebug(logger DebugLogger) Option {
	return func(f *Factory) {
		f.chain.sqlDebug = SqlDebugInterceptor(logger)
	}
}

func WithSlowQueryLogging(limit time.Duration, loggerFunc func(used time.Duration, sql string)) Option {
	return func(f *Factory) {
		f.chain.slowQuery = SlowQueryLoggingInterceptor(limit, loggerFunc)
	}
}

func WithExecuteInterceptors(handlers ...InterceptorHandler) Option {
	return func(f *Factory) {
		f.chain.execute = append(f.chain.execute, handlers...)
	}
}

func (f *Factory) SetSqlDebugInterceptor(interceptor InterceptorHandler) {
	f.chain.mu.Lock()
	f.chain.sqlDebug = interceptor
	f.chain.mu.Unlock()
}

func (f *Factory) SetSlowQueryLoggingInterceptor(interceptor InterceptorHandler) {
	f.chain.mu.Lock()
	f.chain.slowQuery = interceptor
	f.chain.mu.Unlock()
}

func (f *Factory) AddInterceptors(interceptors ...InterceptorHandler) {
	f.chain.mu.Lock()
	f.chain.execute = append(f.chain.execute, interceptors...)
	f.chain.mu.Unlock()
}

// assignResult copies a result produced by an interceptor, e.g. a cache hit,
// into dest when it is not dest itself. res is either of the type of dest or
// of the type dest points to.
func assignResult(dest, res any) error {
	if res == nil || res == dest {
		return nil
	}
	dv, rv := reflect.ValueOf(dest), reflect.ValueOf(res)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return errors.Errorf("query: destination %T is not a pointer", dest)
	}

	switch {
	case rv.Type() == dv.Type():
		if !rv.IsNil() {
			dv.Elem().Set(rv.Elem())
		}
	case rv.Type().AssignableTo(dv.Elem().Type()):
		dv.Elem().Set(rv)
	default:
		return errors.Errorf("query: interceptor returned %T, want %T", res, dest)
	}
	return nil
}
