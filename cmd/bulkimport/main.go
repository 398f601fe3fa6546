// bulkimport is the operator CLI for bulk product imports. It validates the
// CSV locally, reconciles image references against the selected image files,
// uploads the images, and submits the CSV to the storefront service.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"storefront-service/internal/importer"
	"storefront-service/internal/models"
)

func main() {
	csvPath := flag.String("csv", "", "path to the product CSV file")
	imagesDir := flag.String("images", "", "directory of image files to upload")
	server := flag.String("server", "http://localhost:8080", "storefront service base URL")
	token := flag.String("token", os.Getenv("ADMIN_TOKEN"), "admin bearer token")
	yes := flag.Bool("yes", false, "proceed without prompting on image mismatches")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *csvPath == "" {
		logger.Fatal("-csv is required")
	}
	csvData, err := os.ReadFile(*csvPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to read CSV file")
	}

	var imageFiles []string
	if *imagesDir != "" {
		entries, err := os.ReadDir(*imagesDir)
		if err != nil {
			logger.WithError(err).Fatal("Failed to read images directory")
		}
		for _, e := range entries {
			if !e.IsDir() {
				imageFiles = append(imageFiles, e.Name())
			}
		}
	}

	api := &apiClient{
		baseURL:   strings.TrimSuffix(*server, "/"),
		token:     *token,
		imagesDir: *imagesDir,
		http:      &http.Client{Timeout: 2 * time.Minute},
	}

	confirm := promptConfirm
	if *yes {
		confirm = func(importer.MatchResult) bool { return true }
	}

	orch := importer.NewOrchestrator(api, api, confirm, logger)
	orch.SelectImages(imageFiles)

	result := orch.Run(context.Background(), csvData)
	if result.Err != nil {
		logger.WithError(result.Err).Fatal("Import aborted")
	}

	report := result.Report
	fmt.Printf("\n%s\n", report.Message)
	fmt.Printf("  total:      %d\n", report.Total)
	fmt.Printf("  successful: %d\n", report.Successful)
	fmt.Printf("  failed:     %d\n", report.Failed)
	for _, e := range report.Errors {
		fmt.Printf("  error: %s\n", e)
	}
	if result.Outcome != importer.OutcomeSuccess {
		os.Exit(1)
	}
}

// promptConfirm shows the reconciliation report and asks whether to continue.
func promptConfirm(match importer.MatchResult) bool {
	fmt.Println("Image references do not line up with the selected files:")
	for _, m := range match.Missing {
		fmt.Printf("  missing image for reference %q\n", m)
	}
	for _, u := range match.Unused {
		fmt.Printf("  selected file %q is never referenced\n", u)
	}
	fmt.Print("Continue anyway? [y/N] ")

	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// apiClient talks to the storefront admin API. It implements both the image
// uploader and the CSV submitter sides of the orchestrator.
type apiClient struct {
	baseURL   string
	token     string
	imagesDir string
	http      *http.Client
}

// Upload pushes one local image file and returns its public URL.
func (a *apiClient) Upload(ctx context.Context, filename string) (string, error) {
	file, err := os.Open(filepath.Join(a.imagesDir, filename))
	if err != nil {
		return "", err
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := a.post(ctx, "/api/v1/admin/products/images/upload", writer.FormDataContentType(), &body, &resp); err != nil {
		return "", err
	}
	return resp.Data.URL, nil
}

// Submit sends the CSV and the accumulated image mapping to the import
// endpoint.
func (a *apiClient) Submit(ctx context.Context, csvData []byte, mapping importer.ImageMapping) (*models.ImportResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "import.csv")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(csvData); err != nil {
		return nil, err
	}

	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		return nil, err
	}
	if err := writer.WriteField("imageMapping", string(mappingJSON)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	var report models.ImportResponse
	if err := a.post(ctx, "/api/v1/admin/products/import", writer.FormDataContentType(), &body, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (a *apiClient) post(ctx context.Context, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s returned %s: %s", path, resp.Status, string(data))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
