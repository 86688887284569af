// Package storagetest holds the behavior every storage.Medium must share,
// as a testify suite the driver packages run against their own medium.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/stretchr/testify/suite"

	"github.com/forestline/eudrtrack/pkg/storage"
)

type MediumSuite struct {
	suite.Suite

	// New returns an empty medium. It is called before every test.
	New func() storage.Medium

	medium storage.Medium
}

func (s *MediumSuite) SetupTest() {
	s.medium = s.New()
}

func (s *MediumSuite) TearDownTest() {
	s.NoError(s.medium.Close())
}

func (s *MediumSuite) TestMissingKey() {
	_, err := s.medium.Get(context.Background(), "eudr_missing")
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *MediumSuite) TestSetGetOverwrite() {
	ctx := context.Background()

	s.Require().NoError(s.medium.Set(ctx, "eudr_products", []byte(`[{"id":"a"}]`)))
	got, err := s.medium.Get(ctx, "eudr_products")
	s.Require().NoError(err)
	s.Equal(`[{"id":"a"}]`, string(got))

	s.Require().NoError(s.medium.Set(ctx, "eudr_products", []byte(`[]`)))
	got, err = s.medium.Get(ctx, "eudr_products")
	s.Require().NoError(err)
	s.Equal(`[]`, string(got))
}

func (s *MediumSuite) TestDelete() {
	ctx := context.Background()

	s.Require().NoError(s.medium.Set(ctx, "eudr_offline_mode", []byte("true")))
	s.Require().NoError(s.medium.Delete(ctx, "eudr_offline_mode"))
	_, err := s.medium.Get(ctx, "eudr_offline_mode")
	s.ErrorIs(err, storage.ErrNotFound)

	s.NoError(s.medium.Delete(ctx, "eudr_offline_mode"))
}

func (s *MediumSuite) TestKeysAreIndependent() {
	ctx := context.Background()

	s.Require().NoError(s.medium.Set(ctx, "eudr_a", []byte("1")))
	s.Require().NoError(s.medium.Set(ctx, "eudr_b", []byte("2")))

	a, err := s.medium.Get(ctx, "eudr_a")
	s.Require().NoError(err)
	b, err := s.medium.Get(ctx, "eudr_b")
	s.Require().NoError(err)
	s.Equal("1", string(a))
	s.Equal("2", string(b))
}

func (s *MediumSuite) TestConcurrentWriters() {
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("eudr_k%d", i%4)
			if err := s.medium.Set(ctx, key, []byte(fmt.Sprint(i))); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if !errors.Is(err, storage.ErrQuotaExceeded) {
			s.NoError(err)
		}
	}

	for i := range 4 {
		_, err := s.medium.Get(ctx, fmt.Sprintf("eudr_k%d", i))
		s.NoError(err)
	}
}
