package registry

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad/types"
)

type EngineFactory interface {
	NewEngine(ctx context.Context) (types.Engine, error)
}

type engineFactoryWithPriority struct {
	Priority int
	EngineFactory
}

var (
	engineFactoryRegistry       = map[reflect.Type]engineFactoryWithPriority{}
	engineFactoryRegistryLocker sync.Mutex
)

// RegisterEngineFactory makes a factory visible to EngineFactories. Factories
// with a higher priority are tried first. Registering the same factory type
// twice panics.
func RegisterEngineFactory(
	priority int,
	engineFactory EngineFactory,
) {
	t := reflect.ValueOf(engineFactory).Type()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	engineFactoryRegistryLocker.Lock()
	defer engineFactoryRegistryLocker.Unlock()
	if _, ok := engineFactoryRegistry[t]; ok {
		panic(fmt.Errorf("there is already registered a factory of Engine of type %v", t))
	}
	engineFactoryRegistry[t] = engineFactoryWithPriority{
		Priority:      priority,
		EngineFactory: engineFactory,
	}
}

func EngineFactories() []EngineFactory {
	engineFactoryRegistryLocker.Lock()
	var factoriesWithPriorities []engineFactoryWithPriority
	for _, factory := range engineFactoryRegistry {
		factoriesWithPriorities = append(factoriesWithPriorities, factory)
	}
	engineFactoryRegistryLocker.Unlock()

	sort.SliceStable(factoriesWithPriorities, func(i, j int) bool {
		return factoriesWithPriorities[i].Priority > factoriesWithPriorities[j].Priority
	})

	var factories []EngineFactory
	for _, factory := range factoriesWithPriorities {
		factories = append(factories, factory.EngineFactory)
	}

	return factories
}
