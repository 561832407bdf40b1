package projection

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exporterFunc func(ctx context.Context, r Report, name string) (*Document, error)

func (f exporterFunc) Export(ctx context.Context, r Report, name string) (*Document, error) {
	return f(ctx, r, name)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Land_Report_Kumari_Silva.pdf", Filename("Kumari Silva", "pdf"))
	assert.Equal(t, "Land_Report_Mr_N_Perera.pdf", Filename("Mr. N. Perera", "pdf"))
	assert.Equal(t, "Land_Report_Valued_Customer.pdf", Filename("  ", "pdf"))
	assert.Equal(t, "Land_Report_Valued_Customer.pdf", Filename("../../", "pdf"))
}

func TestPDFExporter(t *testing.T) {
	r, err := Project(10)
	require.NoError(t, err)

	e := NewPDFExporter(NewFormatter("en"))
	e.Now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }

	doc, err := e.Export(context.Background(), r, "Kumari Silva")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, "Land_Report_Kumari_Silva.pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Body, []byte("%PDF")))

	doc, err = e.Export(context.Background(), Report{}, "")
	require.NoError(t, err)
	assert.Equal(t, "Land_Report_Valued_Customer.pdf", doc.Filename)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Export(ctx, r, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGuardedExporter_Failures(t *testing.T) {
	r, _ := Project(10)
	orig := r

	g := NewGuardedExporter(exporterFunc(func(context.Context, Report, string) (*Document, error) {
		return nil, errors.New("canvas unavailable")
	}))
	_, _, err := g.Export(context.Background(), "k", r, "A")
	assert.ErrorIs(t, err, ErrExportFailed)
	assert.ErrorContains(t, err, "canvas unavailable")

	g = NewGuardedExporter(exporterFunc(func(context.Context, Report, string) (*Document, error) {
		panic("boom")
	}))
	_, _, err = g.Export(context.Background(), "k", r, "A")
	assert.ErrorIs(t, err, ErrExportFailed)

	assert.Equal(t, orig, r)
}

func TestGuardedExporter_CoalescesConcurrentCalls(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	g := NewGuardedExporter(exporterFunc(func(_ context.Context, _ Report, name string) (*Document, error) {
		calls.Add(1)
		<-release
		return &Document{Filename: Filename(name, "pdf")}, nil
	}))

	var wg sync.WaitGroup
	docs := make([]*Document, 5)
	for i := range docs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, _, err := g.Export(context.Background(), "session-1", Report{}, "")
			assert.NoError(t, err)
			docs[i] = d
		}(i)
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, d := range docs {
		require.NotNil(t, d)
		assert.Equal(t, "Land_Report_Valued_Customer.pdf", d.Filename)
	}
}
