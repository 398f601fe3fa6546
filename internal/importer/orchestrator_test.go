package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/models"
)

// fakeUploader tracks peak concurrency across uploads.
type fakeUploader struct {
	mu        sync.Mutex
	inFlight  int
	maxFlight int
	uploaded  []string
	failFile  string
	delay     time.Duration
}

func (f *fakeUploader) Upload(_ context.Context, filename string) (string, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxFlight {
		f.maxFlight = f.inFlight
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inFlight--
	f.uploaded = append(f.uploaded, filename)
	f.mu.Unlock()

	if filename == f.failFile {
		return "", errors.New("storage unavailable")
	}
	return "https://cdn.example.com/" + filename, nil
}

type fakeSubmitter struct {
	called   bool
	gotCSV   []byte
	gotMap   ImageMapping
	response *models.ImportResponse
	err      error
}

func (f *fakeSubmitter) Submit(_ context.Context, csvData []byte, mapping ImageMapping) (*models.ImportResponse, error) {
	f.called = true
	f.gotCSV = csvData
	f.gotMap = mapping
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func importCSV(imageRefs ...string) []byte {
	csv := "name,description,price,original_price,category,condition,status,stock,image_url,additional_images,detailed_specs\n"
	for i, ref := range imageRefs {
		csv += fmt.Sprintf("Product %d,desc,10,,,,,,%s,,\n", i+1, ref)
	}
	return []byte(csv)
}

func TestRunHappyPath(t *testing.T) {
	uploader := &fakeUploader{}
	submitter := &fakeSubmitter{response: &models.ImportResponse{Total: 2, Successful: 2}}
	orch := NewOrchestrator(uploader, submitter, nil, nil)
	orch.SelectImages([]string{"p1.jpg", "p2.jpg"})

	result := orch.Run(context.Background(), importCSV("p1", "p2"))

	require.NoError(t, result.Err)
	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, StateDone, orch.State())
	assert.True(t, result.Match.Clean())
	assert.True(t, submitter.called)
	assert.Equal(t, ImageMapping{
		"p1": "https://cdn.example.com/p1.jpg",
		"p2": "https://cdn.example.com/p2.jpg",
	}, submitter.gotMap)
}

func TestRunInvalidCSVFailsBeforeUpload(t *testing.T) {
	uploader := &fakeUploader{}
	submitter := &fakeSubmitter{}
	orch := NewOrchestrator(uploader, submitter, nil, nil)

	result := orch.Run(context.Background(), []byte(""))

	require.Error(t, result.Err)
	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Empty(t, uploader.uploaded)
	assert.False(t, submitter.called)
}

func TestRunNoValidRowsFails(t *testing.T) {
	csv := []byte("name,description,price\n,missing name,10\nbad price,desc,-1\n")
	orch := NewOrchestrator(&fakeUploader{}, &fakeSubmitter{}, nil, nil)

	result := orch.Run(context.Background(), csv)

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "no valid rows")
}

func TestRunMismatchAbortsWithoutConfirmer(t *testing.T) {
	submitter := &fakeSubmitter{}
	orch := NewOrchestrator(&fakeUploader{}, submitter, nil, nil)
	orch.SelectImages([]string{"p1.jpg"})

	result := orch.Run(context.Background(), importCSV("p1", "p2"))

	require.Error(t, result.Err)
	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Equal(t, []string{"p2"}, result.Match.Missing)
	assert.False(t, submitter.called)
}

func TestRunMismatchConfirmedProceeds(t *testing.T) {
	var confirmed MatchResult
	confirm := func(m MatchResult) bool {
		confirmed = m
		return true
	}
	submitter := &fakeSubmitter{response: &models.ImportResponse{Total: 2, Successful: 2}}
	orch := NewOrchestrator(&fakeUploader{}, submitter, confirm, nil)
	orch.SelectImages([]string{"p1.jpg"})

	result := orch.Run(context.Background(), importCSV("p1", "p2"))

	require.NoError(t, result.Err)
	assert.Equal(t, []string{"p2"}, confirmed.Missing)
	assert.True(t, submitter.called)
	// Only the matched file is uploaded.
	assert.Equal(t, ImageMapping{"p1": "https://cdn.example.com/p1.jpg"}, submitter.gotMap)
}

func TestRunUploadConcurrencyCap(t *testing.T) {
	refs := make([]string, 12)
	files := make([]string, 12)
	for i := range refs {
		refs[i] = fmt.Sprintf("img%02d", i)
		files[i] = fmt.Sprintf("img%02d.jpg", i)
	}

	uploader := &fakeUploader{delay: 5 * time.Millisecond}
	submitter := &fakeSubmitter{response: &models.ImportResponse{Total: 12, Successful: 12}}
	orch := NewOrchestrator(uploader, submitter, nil, nil)
	orch.SelectImages(files)

	result := orch.Run(context.Background(), importCSV(refs...))

	require.NoError(t, result.Err)
	assert.Len(t, uploader.uploaded, 12)
	assert.LessOrEqual(t, uploader.maxFlight, UploadBatchSize)
	assert.Greater(t, uploader.maxFlight, 1)
}

func TestRunUploadFailureAbortsSubmit(t *testing.T) {
	uploader := &fakeUploader{failFile: "p2.jpg"}
	submitter := &fakeSubmitter{}
	orch := NewOrchestrator(uploader, submitter, nil, nil)
	orch.SelectImages([]string{"p1.jpg", "p2.jpg"})

	result := orch.Run(context.Background(), importCSV("p1", "p2"))

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "image upload failed")
	assert.False(t, submitter.called)
	// The failing file's batch sibling still settles before the abort.
	assert.Len(t, uploader.uploaded, 2)
}

func TestRunOutcomeClassification(t *testing.T) {
	tests := []struct {
		name     string
		report   *models.ImportResponse
		expected Outcome
	}{
		{"all succeeded", &models.ImportResponse{Total: 3, Successful: 3}, OutcomeSuccess},
		{"some failed", &models.ImportResponse{Total: 3, Successful: 2, Failed: 1}, OutcomePartial},
		{"none succeeded", &models.ImportResponse{Total: 3, Failed: 3}, OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submitter := &fakeSubmitter{response: tt.report}
			orch := NewOrchestrator(&fakeUploader{}, submitter, nil, nil)
			orch.SelectImages(nil)

			result := orch.Run(context.Background(), importCSV(""))
			require.NoError(t, result.Err)
			assert.Equal(t, tt.expected, result.Outcome)
		})
	}
}
