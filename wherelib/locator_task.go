package wherelib

import (
	"context"
	"net"
	"sync"
)

type locatorTask struct {
	ctx           context.Context
	ip            net.IP
	resultChannel chan<- Enrichment
}

type locatorLookup struct {
	index  int
	result ProviderLookupResult
	err    error
}

func (l *Locator) runTask(args interface{}) {
	task := args.(*locatorTask)
	results := make([]*ProviderLookupResult, len(l.providers))
	lookupChannel := make(chan locatorLookup, len(l.providers))
	wg := &sync.WaitGroup{}

	wg.Add(len(l.providers))

	for i := range l.providers {
		go l.lookup(task.ctx, task.ip, i, lookupChannel, wg)
	}

	go func() {
		wg.Wait()
		close(lookupChannel)
	}()

	for res := range lookupChannel {
		l.stats[res.index].Used(res.err)

		if res.err != nil {
			l.logger.LookupError(task.ip, l.providers[res.index].Name(), res.err)

			continue
		}

		result := res.result
		results[res.index] = &result
	}

	// resultChannel is buffered so a caller which has gone away does
	// not block a worker.
	task.resultChannel <- mergeLookupResults(results)
}

func (l *Locator) lookup(ctx context.Context,
	ip net.IP,
	index int,
	lookupChannel chan<- locatorLookup,
	wg *sync.WaitGroup) {
	defer wg.Done()

	result, err := l.providers[index].Lookup(ctx, ip)

	lookupChannel <- locatorLookup{
		index:  index,
		result: result,
		err:    err,
	}
}
