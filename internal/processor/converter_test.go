package processor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/vocabtts/internal/audio"
	"codeberg.org/snonux/vocabtts/internal/testutil"
)

var mp3Data = []byte{0xFF, 0xFB, 0x90, 0x00}

func TestConvertWords(t *testing.T) {
	dir := t.TempDir()
	provider := testutil.NewMockProvider(mp3Data)
	pacer := &testutil.CountingPacer{}
	converter := NewConverter(provider, pacer, dir)

	results := converter.ConvertWords(context.Background(), []string{"привет", "пока"}, "ru", "utf-8")

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	for i, want := range []string{"1привет.mp3", "2пока.mp3"} {
		r := results[i]
		if r.Outcome != Success {
			t.Errorf("result %d: outcome = %s, err = %v", i, r.Outcome, r.Err)
		}
		if r.Index != i+1 {
			t.Errorf("result %d: index = %d", i, r.Index)
		}
		if r.OutputPath != filepath.Join(dir, want) {
			t.Errorf("result %d: output = %s, want %s", i, r.OutputPath, want)
		}
		testutil.AssertFileContent(t, filepath.Join(dir, want), mp3Data)
	}

	if pacer.Waits != 2 {
		t.Errorf("Expected 2 pacing waits, got %d", pacer.Waits)
	}

	req := provider.Requests[0]
	if req.Language != "ru" || req.Text != "привет" {
		t.Errorf("unexpected request %+v", req)
	}
	if req.Query != "%D0%BF%D1%80%D0%B8%D0%B2%D0%B5%D1%82" {
		t.Errorf("Query = %q", req.Query)
	}
}

func TestConvertWords_LengthLimits(t *testing.T) {
	provider := testutil.NewMockProvider(mp3Data)
	pacer := &testutil.CountingPacer{}
	converter := NewConverter(provider, pacer, t.TempDir())

	words := []string{
		"",
		strings.Repeat("a", 101),
		"a",
		strings.Repeat("b", 100),
		strings.Repeat("ж", 100),
		strings.Repeat("ж", 101),
	}
	results := converter.ConvertWords(context.Background(), words, "en", "utf-8")

	want := []struct {
		outcome Outcome
		reason  string
	}{
		{Skipped, "empty"},
		{Skipped, "too long"},
		{Success, ""},
		{Success, ""},
		{Success, ""},
		{Skipped, "too long"},
	}

	for i, w := range want {
		if results[i].Outcome != w.outcome || results[i].Reason != w.reason {
			t.Errorf("word %d: got %s(%q), want %s(%q)", i, results[i].Outcome, results[i].Reason, w.outcome, w.reason)
		}
	}

	// Skipped words neither wait nor send a request
	if provider.Calls() != 3 {
		t.Errorf("Expected 3 requests, got %d", provider.Calls())
	}
	if pacer.Waits != 3 {
		t.Errorf("Expected 3 pacing waits, got %d", pacer.Waits)
	}
}

func TestConvertWords_FailureDoesNotStopBatch(t *testing.T) {
	dir := t.TempDir()
	provider := testutil.NewMockProvider(mp3Data)
	provider.Errors["bad"] = &audio.StatusError{StatusCode: 503, Status: "503 Service Unavailable"}
	converter := NewConverter(provider, &testutil.CountingPacer{}, dir)

	results := converter.ConvertWords(context.Background(), []string{"one", "bad", "three"}, "en", "utf-8")

	if results[1].Outcome != Failed || results[1].Failure != FailureHTTPStatus || results[1].StatusCode != 503 {
		t.Errorf("unexpected result for failing word: %+v", results[1])
	}
	if results[2].Outcome != Success {
		t.Errorf("word after the failure: outcome = %s", results[2].Outcome)
	}

	testutil.AssertFileExists(t, filepath.Join(dir, "1one.mp3"))
	testutil.AssertFileNotExists(t, filepath.Join(dir, "2bad.mp3"))
	testutil.AssertFileExists(t, filepath.Join(dir, "3three.mp3"))
}

func TestConvertWords_EncodingFailure(t *testing.T) {
	dir := t.TempDir()
	provider := testutil.NewMockProvider(mp3Data)
	converter := NewConverter(provider, &testutil.CountingPacer{}, dir)

	results := converter.ConvertWords(context.Background(), []string{"привет", "日本", "мир"}, "ru", "windows-1251")

	if results[1].Outcome != Failed || results[1].Failure != FailureEncoding {
		t.Errorf("unexpected result for unencodable word: %+v", results[1])
	}
	if results[0].Outcome != Success || results[2].Outcome != Success {
		t.Errorf("neighbouring words should succeed: %s, %s", results[0].Outcome, results[2].Outcome)
	}

	if !reflect.DeepEqual(provider.Texts(), []string{"привет", "мир"}) {
		t.Errorf("requests = %q", provider.Texts())
	}
	if provider.Requests[0].Query != "%EF%F0%E8%E2%E5%F2" {
		t.Errorf("Query = %q, want windows-1251 escaping", provider.Requests[0].Query)
	}
}

func TestConvertWords_SameWordTwice(t *testing.T) {
	dir := t.TempDir()
	provider := testutil.NewMockProvider(mp3Data)
	converter := NewConverter(provider, &testutil.CountingPacer{}, dir)

	results := converter.ConvertWords(context.Background(), []string{"hello", "hello"}, "en", "utf-8")
	for _, r := range results {
		if r.Outcome != Success {
			t.Fatalf("outcome = %s, err = %v", r.Outcome, r.Err)
		}
	}

	if provider.Requests[0] != provider.Requests[1] {
		t.Errorf("requests differ: %+v vs %+v", provider.Requests[0], provider.Requests[1])
	}
	if results[0].OutputPath == results[1].OutputPath {
		t.Error("sequence index should distinguish the output files")
	}

	// A second run overwrites the files
	results = converter.ConvertWords(context.Background(), []string{"hello"}, "en", "utf-8")
	if results[0].Outcome != Success {
		t.Errorf("rerun outcome = %s, err = %v", results[0].Outcome, results[0].Err)
	}
}

func TestConvertWords_Canceled(t *testing.T) {
	provider := testutil.NewMockProvider(mp3Data)
	converter := NewConverter(provider, &testutil.CountingPacer{}, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := converter.ConvertWords(ctx, []string{"one", "two"}, "en", "utf-8")
	for _, r := range results {
		if r.Outcome != Failed || r.Failure != FailureCanceled {
			t.Errorf("word %q: %s/%s, want failed/canceled", r.Word, r.Outcome, r.Failure)
		}
	}
	if provider.Calls() != 0 {
		t.Errorf("Expected no requests, got %d", provider.Calls())
	}
}

// cancelingPacer cancels the batch on its n-th wait
type cancelingPacer struct {
	n      int
	waits  int
	cancel context.CancelFunc
}

func (p *cancelingPacer) Wait(ctx context.Context) error {
	p.waits++
	if p.waits == p.n {
		p.cancel()
	}
	return ctx.Err()
}

func TestConvertWords_CanceledMidBatch(t *testing.T) {
	dir := t.TempDir()
	provider := testutil.NewMockProvider(mp3Data)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	converter := NewConverter(provider, &cancelingPacer{n: 2, cancel: cancel}, dir)
	results := converter.ConvertWords(ctx, []string{"one", "two", "three"}, "en", "utf-8")

	got := []FailureKind{results[0].Failure, results[1].Failure, results[2].Failure}
	want := []FailureKind{FailureNone, FailureCanceled, FailureCanceled}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("failures = %v, want %v", got, want)
	}
	if provider.Calls() != 1 {
		t.Errorf("Expected 1 request, got %d", provider.Calls())
	}
}

func TestConvertWords_Pacing(t *testing.T) {
	interval := 50 * time.Millisecond
	provider := testutil.NewMockProvider(mp3Data)
	converter := NewConverter(provider, NewPacer(interval), t.TempDir())

	start := time.Now()
	results := converter.ConvertWords(context.Background(), []string{"one", "two", "three"}, "en", "utf-8")
	elapsed := time.Since(start)

	for _, r := range results {
		if r.Outcome != Success {
			t.Fatalf("outcome = %s, err = %v", r.Outcome, r.Err)
		}
	}

	// The first request goes out immediately, the next two wait one interval each
	if elapsed < 2*interval-10*time.Millisecond {
		t.Errorf("three paced requests took %v, want at least %v", elapsed, 2*interval)
	}
}

func TestConvertOne(t *testing.T) {
	dir := t.TempDir()
	provider := testutil.NewMockProvider(mp3Data)
	pacer := &testutil.CountingPacer{}
	converter := NewConverter(provider, pacer, dir)

	result := converter.ConvertOne(context.Background(), "hello world", "en", "utf-8")

	if result.Outcome != Success {
		t.Fatalf("outcome = %s, err = %v", result.Outcome, result.Err)
	}
	if result.Index != 0 {
		t.Errorf("index = %d, want 0", result.Index)
	}
	testutil.AssertFileExists(t, filepath.Join(dir, "hello world.mp3"))

	if pacer.Waits != 0 {
		t.Errorf("single conversion should not wait, got %d waits", pacer.Waits)
	}
	if provider.Calls() != 1 {
		t.Errorf("Expected 1 request, got %d", provider.Calls())
	}
	if provider.Requests[0].Query != "hello+world" {
		t.Errorf("Query = %q", provider.Requests[0].Query)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   FailureKind
		wantStatus int
	}{
		{"status", fmt.Errorf("google: %w", &audio.StatusError{StatusCode: 404, Status: "404 Not Found"}), FailureHTTPStatus, 404},
		{"timeout", fmt.Errorf("%w: %w", audio.ErrTimeout, context.DeadlineExceeded), FailureTimeout, 0},
		{"canceled", fmt.Errorf("request aborted: %w", context.Canceled), FailureCanceled, 0},
		{"write", fmt.Errorf("%w: disk full", audio.ErrWriteOutput), FailureWrite, 0},
		{"other", errors.New("connection refused"), FailureTransport, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, status := classify(tt.err)
			if kind != tt.wantKind || status != tt.wantStatus {
				t.Errorf("classify() = %s/%d, want %s/%d", kind, status, tt.wantKind, tt.wantStatus)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Outcome: Success},
		{Outcome: Skipped},
		{Outcome: Failed},
		{Outcome: Success},
	}

	want := Summary{Total: 4, Converted: 2, Skipped: 1, Failed: 1}
	if got := Summarize(results); got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}
