package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/rosterd/rosterd/internal/testutil"
)

// BenchmarkJobRepo_Create benchmarks job creation performance.
func BenchmarkJobRepo_Create(b *testing.B) {
	testutil.SkipIfNoTestDB(b)

	testutil.WithAutoDB(b, func(db *sql.DB) {
		repo := NewJobRepo(db, RepoConfig{})

		req := &model.CreateJobRequest{
			Type:    model.JobTypeOptimize,
			Payload: json.RawMessage(`{"run_id":"benchmark"}`),
		}

		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				_, err := repo.Create(context.Background(), req)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	})
}

// BenchmarkJobRepo_ReserveNext benchmarks job reservation performance.
func BenchmarkJobRepo_ReserveNext(b *testing.B) {
	testutil.SkipIfNoTestDB(b)

	testutil.WithAutoDB(b, func(db *sql.DB) {
		repo := NewJobRepo(db, RepoConfig{})

		// Pre-populate with jobs
		const numJobs = 1000
		for i := range numJobs {
			req := &model.CreateJobRequest{
				Type:     model.JobTypeOptimize,
				Payload:  json.RawMessage(fmt.Sprintf(`{"seq":%d}`, i)),
				Priority: i % 100, // Vary priorities
			}
			_, err := repo.Create(context.Background(), req)
			if err != nil {
				b.Fatal(err)
			}
		}

		b.ResetTimer()
		for b.Loop() {
			_, err := repo.ReserveNext(context.Background(), model.JobTypeOptimize, 30)
			if err != nil && !errors.Is(err, model.ErrNoJobsAvailable) {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkJobRepo_ConcurrentReserveNext benchmarks concurrent job reservation.
func BenchmarkJobRepo_ConcurrentReserveNext(b *testing.B) {
	testutil.SkipIfNoTestDB(b)

	testutil.WithAutoDB(b, func(db *sql.DB) {
		repo := NewJobRepo(db, RepoConfig{})

		// Pre-populate with jobs
		const numJobs = 10000
		for i := range numJobs {
			req := &model.CreateJobRequest{
				Type:     model.JobTypeOptimize,
				Payload:  json.RawMessage(fmt.Sprintf(`{"seq":%d}`, i)),
				Priority: i % 100,
			}
			_, err := repo.Create(context.Background(), req)
			if err != nil {
				b.Fatal(err)
			}
		}

		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				_, err := repo.ReserveNext(context.Background(), model.JobTypeOptimize, 30)
				if err != nil && !errors.Is(err, model.ErrNoJobsAvailable) {
					b.Fatal(err)
				}
			}
		})
	})
}

// BenchmarkJobRepo_Stats benchmarks statistics query performance.
func BenchmarkJobRepo_Stats(b *testing.B) {
	testutil.SkipIfNoTestDB(b)

	testutil.WithAutoDB(b, func(db *sql.DB) {
		repo := NewJobRepo(db, RepoConfig{})

		// Pre-populate with jobs in various states
		const numJobs = 1000
		for i := range numJobs {
			req := &model.CreateJobRequest{
				Type:    model.JobTypeOptimize,
				Payload: json.RawMessage(fmt.Sprintf(`{"seq":%d}`, i)),
			}
			_, err := repo.Create(context.Background(), req)
			if err != nil {
				b.Fatal(err)
			}

			// Reserve every fourth job, complete every eighth, for varied states
			if i%4 != 0 {
				continue
			}

			reserved, err := repo.ReserveNext(context.Background(), model.JobTypeOptimize, 30)
			if err != nil {
				b.Fatal(err)
			}

			if i%8 != 0 {
				continue
			}

			_, err = repo.Complete(context.Background(), reserved.ID)
			if err != nil {
				b.Fatal(err)
			}
		}

		b.ResetTimer()
		for b.Loop() {
			_, err := repo.Stats(context.Background(), model.JobTypeOptimize)
			if err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkJobRepo_MultiWorkerScenario benchmarks a realistic multi-worker scenario.
func BenchmarkJobRepo_MultiWorkerScenario(b *testing.B) {
	testutil.SkipIfNoTestDB(b)

	testutil.WithAutoDB(b, func(db *sql.DB) {
		repo := NewJobRepo(db, RepoConfig{})

		const numWorkers = 10
		const jobsPerWorker = 100

		// Pre-populate with jobs
		for i := range numWorkers * jobsPerWorker {
			req := &model.CreateJobRequest{
				Type:     model.JobTypeOptimize,
				Payload:  json.RawMessage(fmt.Sprintf(`{"seq":%d}`, i)),
				Priority: i % 100,
			}
			_, err := repo.Create(context.Background(), req)
			if err != nil {
				b.Fatal(err)
			}
		}

		b.ResetTimer()

		var wg sync.WaitGroup
		for range numWorkers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range jobsPerWorker {
					// Reserve job
					job, err := repo.ReserveNext(context.Background(), model.JobTypeOptimize, 30)
					if err != nil {
						if !errors.Is(err, model.ErrNoJobsAvailable) {
							b.Error(err)
						}
						continue
					}

					// Simulate work with heartbeat
					_, err = repo.Heartbeat(context.Background(), job.ID, 60)
					if err != nil {
						b.Error(err)
						continue
					}

					// Complete job
					_, err = repo.Complete(context.Background(), job.ID)
					if err != nil {
						b.Error(err)
					}
				}
			}()
		}
		wg.Wait()
	})
}
