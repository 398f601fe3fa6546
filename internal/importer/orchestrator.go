package importer

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"storefront-service/internal/models"
)

// State names the phases of the client-side upload orchestration.
type State string

const (
	StateIdle                 State = "Idle"
	StateImagesSelected       State = "ImagesSelected"
	StateValidatingCSV        State = "ValidatingCSV"
	StateAwaitingConfirmation State = "AwaitingConfirmation"
	StateUploading            State = "Uploading"
	StatePersisting           State = "Persisting"
	StateDone                 State = "Done"
)

// Outcome classifies a finished run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
)

// UploadBatchSize caps in-flight image uploads without serializing the whole
// set.
const UploadBatchSize = 5

// ImageUploader pushes one image to object storage and returns its public
// URL.
type ImageUploader interface {
	Upload(ctx context.Context, filename string) (string, error)
}

// Submitter sends the CSV plus the accumulated filename-to-URL mapping to the
// backend import endpoint.
type Submitter interface {
	Submit(ctx context.Context, csvData []byte, mapping ImageMapping) (*models.ImportResponse, error)
}

// Confirmer pauses the flow on reference mismatches; returning false aborts
// so the operator can review files. A nil Confirmer aborts on any mismatch.
type Confirmer func(result MatchResult) bool

// Orchestrator sequences local pre-validation, image upload, and final
// submission. Local validation is advisory early warning only; the server
// re-validates and is the authority.
type Orchestrator struct {
	uploader ImageUploader
	submit   Submitter
	confirm  Confirmer
	logger   *logrus.Logger

	state State
	// suppliedImages are the locally selected image filenames.
	suppliedImages []string
}

// NewOrchestrator creates an orchestrator in the Idle state.
func NewOrchestrator(uploader ImageUploader, submit Submitter, confirm Confirmer, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		uploader: uploader,
		submit:   submit,
		confirm:  confirm,
		logger:   logger,
		state:    StateIdle,
	}
}

// State returns the current phase.
func (o *Orchestrator) State() State {
	return o.state
}

// SelectImages records the locally selected image files.
func (o *Orchestrator) SelectImages(filenames []string) {
	o.suppliedImages = append([]string(nil), filenames...)
	o.state = StateImagesSelected
}

// RunResult is the terminal report of one orchestrated import.
type RunResult struct {
	Outcome  Outcome
	Match    MatchResult
	Report   *models.ImportResponse
	Uploaded ImageMapping
	Err      error
}

// Run executes the full flow against the given CSV bytes. Parse and match run
// locally before any network traffic so the operator can cancel before
// incurring storage cost. Image-upload errors are fatal to the run: the CSV
// phase is never attempted on an incomplete image set.
func (o *Orchestrator) Run(ctx context.Context, csvData []byte) RunResult {
	o.state = StateValidatingCSV

	rows, err := ReadRows(bytes.NewReader(csvData))
	if err != nil {
		return o.fail(fmt.Errorf("CSV validation failed: %w", err))
	}

	// Advisory pre-validation; per-row failures are reported server-side.
	validRows := 0
	for _, row := range rows {
		if _, err := NormalizeRow(row.Fields, row.RowNum, nil); err == nil {
			validRows++
		} else if o.logger != nil {
			o.logger.WithField("row", row.RowNum).Debug(err.Error())
		}
	}
	if validRows == 0 {
		return o.fail(fmt.Errorf("no valid rows in CSV"))
	}

	match, err := MatchImages(CollectImageRefs(rows), o.suppliedImages)
	if err != nil {
		return o.fail(err)
	}

	if !match.Clean() {
		o.state = StateAwaitingConfirmation
		if o.confirm == nil || !o.confirm(match) {
			return RunResult{Outcome: OutcomeFailed, Match: match, Err: fmt.Errorf("import cancelled: image references do not match selected files")}
		}
	}

	o.state = StateUploading
	mapping, err := o.uploadImages(ctx, match.Upload)
	if err != nil {
		return o.fail(fmt.Errorf("image upload failed: %w", err))
	}

	o.state = StatePersisting
	report, err := o.submit.Submit(ctx, csvData, mapping)
	if err != nil {
		return o.fail(fmt.Errorf("import submission failed: %w", err))
	}

	o.state = StateDone
	outcome := OutcomeSuccess
	if report.Failed > 0 {
		outcome = OutcomePartial
	}
	if report.Successful == 0 {
		outcome = OutcomeFailed
	}
	return RunResult{Outcome: outcome, Match: match, Report: report, Uploaded: mapping}
}

func (o *Orchestrator) fail(err error) RunResult {
	o.state = StateDone
	return RunResult{Outcome: OutcomeFailed, Err: err}
}

// uploadImages pushes files in batches of UploadBatchSize. Uploads within a
// batch are issued concurrently and all settle before the next batch begins;
// a failure does not cancel its siblings but fails the phase once the batch
// is done.
func (o *Orchestrator) uploadImages(ctx context.Context, files []string) (ImageMapping, error) {
	mapping := make(ImageMapping, len(files))
	var mu sync.Mutex

	for start := 0; start < len(files); start += UploadBatchSize {
		end := start + UploadBatchSize
		if end > len(files) {
			end = len(files)
		}

		var wg sync.WaitGroup
		errs := make([]error, end-start)
		for i, file := range files[start:end] {
			wg.Add(1)
			go func(i int, file string) {
				defer wg.Done()
				url, err := o.uploader.Upload(ctx, file)
				if err != nil {
					errs[i] = fmt.Errorf("%s: %w", file, err)
					return
				}
				mu.Lock()
				mapping[StripExtension(file)] = url
				mu.Unlock()
			}(i, file)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}

	return mapping, nil
}
