// Package batch values many option contracts concurrently. The pricing
// model is immutable, so workers share nothing but the jobs channel.
package batch

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/cpu"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"

	"github.com/quantops/greekbot/bsm"
	"github.com/quantops/greekbot/contracts"
)

const jobBatchSize = 1000

// Result is the valuation of a single contract. Expired contracts carry
// prices (intrinsic value) but no greeks. Invalid contracts carry only
// an error; non-finite values are never emitted.
type Result struct {
	Contract      contracts.Contract `json:"contract"`
	CallPrice     float64            `json:"call_price"`
	PutPrice      float64            `json:"put_price"`
	CallIntrinsic float64            `json:"call_intrinsic"`
	PutIntrinsic  float64            `json:"put_intrinsic"`
	Greeks        *bsm.Greeks        `json:"greeks,omitempty"`
	Error         string             `json:"error,omitempty"`
}

type job struct {
	index    int
	contract contracts.Contract
}

// Run values every contract at the given valuation time and returns the
// results in input order. workers <= 0 sizes the pool from the CPU count.
func Run(list []contracts.Contract, now time.Time, workers int) []Result {
	if len(list) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = numWorkers()
	}
	fmt.Printf("Valuing %d contracts using %d workers\n", len(list), workers)

	stop := make(chan struct{})
	go monitorCPUUsage(stop)
	defer close(stop)

	p := mpb.New(mpb.WithWidth(64))
	bar := p.AddBar(int64(len(list)),
		mpb.PrependDecorators(
			decor.Name("Progress"),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
		),
	)

	results := make([]Result, len(list))
	jobChan := make(chan job, jobBatchSize)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker(jobChan, results, &wg, bar, now)
	}

	for i, c := range list {
		jobChan <- job{index: i, contract: c}
	}
	close(jobChan)

	wg.Wait()
	p.Wait()

	return results
}

func worker(jobs <-chan job, results []Result, wg *sync.WaitGroup, bar *mpb.Bar, now time.Time) {
	defer wg.Done()
	for j := range jobs {
		results[j.index] = value(j.contract, now)
		bar.Increment()
	}
}

func value(c contracts.Contract, now time.Time) Result {
	res := Result{Contract: c}

	model, err := c.Model(now)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.CallPrice = model.CallPrice()
	res.PutPrice = model.PutPrice()
	res.CallIntrinsic = model.CallIntrinsic()
	res.PutIntrinsic = model.PutIntrinsic()

	// Greeks are undefined at expiry; expired contracts keep a nil entry.
	if greeks, err := model.AllGreeks(); err == nil {
		res.Greeks = &greeks
	}

	return res
}

func numWorkers() int {
	count, err := cpu.Counts(true)
	if err != nil || count < 1 {
		return runtime.NumCPU()
	}
	return count
}

func monitorCPUUsage(stop <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			percentage, err := cpu.Percent(time.Second, false)
			if err == nil && len(percentage) > 0 {
				fmt.Printf("\nCPU Usage: %.2f%%\n", percentage[0])
			}
		}
	}
}
