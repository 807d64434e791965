package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/davrd/steward/internal/intent"
)

func TestWriter_AppendEvent(t *testing.T) {
	workspace := t.TempDir()
	writer := NewWriter(workspace)

	firstTime := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	secondTime := firstTime.Add(5 * time.Second)

	if err := writer.Append(Event{
		Time:      firstTime,
		Type:      EventToolCall,
		RequestID: "req-1",
		Tool:      intent.ToolReadFile,
		Args:      map[string]string{"path": "/docs/readme.md"},
		OK:        true,
		Result:    "Welcome!\n",
	}); err != nil {
		t.Fatalf("Append first event error: %v", err)
	}

	if err := writer.Append(Event{
		Time:      secondTime,
		Type:      EventReflection,
		RequestID: "req-1",
		Note:      "substituted tool",
	}); err != nil {
		t.Fatalf("Append second event error: %v", err)
	}

	auditPath := filepath.Join(workspace, "state", "audit.jsonl")
	file, err := os.Open(auditPath)
	if err != nil {
		t.Fatalf("Open audit file error: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lines := make([]string, 0, 2)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan audit file error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 jsonl lines, got %d", len(lines))
	}

	var first Event
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal first line error: %v", err)
	}
	if !first.Time.Equal(firstTime) {
		t.Fatalf("expected first time %s, got %s", firstTime, first.Time)
	}
	if first.Type != EventToolCall {
		t.Fatalf("expected tool_call type, got %q", first.Type)
	}
	if first.Tool != intent.ToolReadFile {
		t.Fatalf("expected read_file, got %q", first.Tool)
	}
	if !first.OK {
		t.Fatal("expected first event ok")
	}

	var second Event
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("unmarshal second line error: %v", err)
	}
	if second.Type != EventReflection {
		t.Fatalf("expected reflection type, got %q", second.Type)
	}
	if second.Note != "substituted tool" {
		t.Fatalf("unexpected note: %q", second.Note)
	}
}

func TestWriter_AppendEvent_MkdirAllFailure(t *testing.T) {
	workspace := t.TempDir()
	statePath := filepath.Join(workspace, "state")
	if err := os.WriteFile(statePath, []byte("not-a-dir"), 0644); err != nil {
		t.Fatalf("WriteFile state blocker error: %v", err)
	}

	writer := NewWriter(workspace)
	err := writer.Append(Event{Time: time.Now().UTC(), Type: EventToolCall})
	if err == nil {
		t.Fatal("expected append error when state path is a file")
	}
}

func TestWriter_AppendEvent_Concurrent(t *testing.T) {
	workspace := t.TempDir()
	writer := NewWriter(workspace)

	const total = 20
	var wg sync.WaitGroup
	errCh := make(chan error, total)
	wg.Add(total)
	for i := 0; i < total; i++ {
		i := i
		go func() {
			defer wg.Done()
			if err := writer.Append(Event{
				Time:      time.Date(2026, 5, 4, 9, 0, i, 0, time.UTC),
				Type:      EventToolCall,
				RequestID: fmt.Sprintf("req-%d", i),
				Tool:      intent.ToolSearchFiles,
				OK:        true,
			}); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("append failed in concurrent path: %v", err)
	}

	auditPath := filepath.Join(workspace, "state", "audit.jsonl")
	file, err := os.Open(auditPath)
	if err != nil {
		t.Fatalf("Open audit file error: %v", err)
	}
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan audit file error: %v", err)
	}
	if count != total {
		t.Fatalf("expected %d lines, got %d", total, count)
	}
}
