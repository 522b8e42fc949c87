package webrtcvad

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad/registry"
)

var (
	lastSuccessfulEngineFactory       registry.EngineFactory
	lastSuccessfulEngineFactoryLocker sync.Mutex
)

func getLastSuccessfulEngineFactory() registry.EngineFactory {
	lastSuccessfulEngineFactoryLocker.Lock()
	defer lastSuccessfulEngineFactoryLocker.Unlock()
	return lastSuccessfulEngineFactory
}

// NewEngineAuto returns an engine from the first registered factory (by
// priority) that manages to load one. Implementations register themselves
// when their package is imported, for example:
//
//	import _ "github.com/xaionaro-go/webrtcvad/pkg/webrtcvad/implementations/dynamic"
func NewEngineAuto(
	ctx context.Context,
) (Engine, error) {
	factory := getLastSuccessfulEngineFactory()
	if factory != nil {
		engine, err := factory.NewEngine(ctx)
		if err == nil {
			return engine, nil
		}
		logger.Debugf(ctx, "the last successful engine factory %T failed: %v", factory, err)
	}

	factories := registry.EngineFactories()
	if len(factories) == 0 {
		return nil, ErrEngineUnavailable{
			Err: fmt.Errorf("no engine implementations are registered; import one of the packages in pkg/webrtcvad/implementations"),
		}
	}

	var (
		mErr        *multierror.Error
		searchPaths []string
	)
	for _, factory := range factories {
		engine, err := factory.NewEngine(ctx)
		logger.Debugf(ctx, "initializing engine using %T result is %v", factory, err)
		if err != nil {
			var errUnavailable ErrEngineUnavailable
			if errors.As(err, &errUnavailable) {
				searchPaths = append(searchPaths, errUnavailable.SearchPaths...)
			}
			mErr = multierror.Append(mErr, fmt.Errorf("unable to initialize an engine using %T: %w", factory, err))
			continue
		}

		lastSuccessfulEngineFactoryLocker.Lock()
		defer lastSuccessfulEngineFactoryLocker.Unlock()
		lastSuccessfulEngineFactory = factory
		return engine, nil
	}

	return nil, ErrEngineUnavailable{
		SearchPaths: searchPaths,
		Err:         mErr.ErrorOrNil(),
	}
}
