// Command benchmark measures FileCleaner's scan throughput against a
// generated corpus of synthetic source files, mirroring the teacher's own
// cmd/benchmark (which generated a synthetic CSV and timed its indexer)
// with the generated corpus and timed pass swapped for FileCleaner's own
// domain: source files and driver.RunRowCount.
package main

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/perghosh/filecleaner/internal/driver"
)

func main() {
	sizeMB := 50
	if len(os.Args) > 1 {
		fmt.Sscanf(os.Args[1], "%d", &sizeMB)
	}
	if sizeMB <= 0 {
		sizeMB = 50
	}

	fmt.Printf("Generating ~%d MB of synthetic C source across many files...\n", sizeMB)
	tmpDir, err := os.MkdirTemp("", "filecleaner_bench")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	paths, bytesWritten, err := generateCorpus(tmpDir, int64(sizeMB)*1024*1024)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Generated %d files (%.2f MB)\n", len(paths), float64(bytesWritten)/1024/1024)

	fmt.Println("Starting scan...")
	start := time.Now()
	results := driver.RunRowCount(context.Background(), paths, 8)
	elapsed := time.Since(start)

	var totalLines uint64
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "error scanning %s: %v\n", r.Path, r.Err)
			continue
		}
		totalLines += r.Total
	}

	mbPerSec := float64(bytesWritten) / 1024 / 1024 / elapsed.Seconds()
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Files:      %d\n", len(paths))
	fmt.Printf("Lines:      %d\n", totalLines)
	fmt.Printf("Throughput: %.2f MB/s\n", mbPerSec)
	fmt.Printf("Time:       %v\n", elapsed)
	fmt.Println("--------------------------------------------------")
}

// generateCorpus writes synthetic .c files under dir until at least limit
// bytes have been produced, each a few hundred lines of code, comments, and
// string literals so the generated scan exercises all three regions.
func generateCorpus(dir string, limit int64) ([]string, int64, error) {
	rng := rand.New(rand.NewSource(123))
	var paths []string
	var written int64
	fileIndex := 0

	for written < limit {
		fileIndex++
		path := filepath.Join(dir, fmt.Sprintf("file_%04d.c", fileIndex))
		f, err := os.Create(path)
		if err != nil {
			return nil, 0, err
		}
		w := bufio.NewWriterSize(f, 64*1024)

		n, err := writeSyntheticFile(w, rng)
		if err != nil {
			f.Close()
			return nil, 0, err
		}
		if err := w.Flush(); err != nil {
			f.Close()
			return nil, 0, err
		}
		f.Close()

		written += int64(n)
		paths = append(paths, path)
	}
	return paths, written, nil
}

func writeSyntheticFile(w *bufio.Writer, rng *rand.Rand) (int, error) {
	written := 0
	lines := 200 + rng.Intn(200)
	for i := 0; i < lines; i++ {
		var line string
		switch i % 5 {
		case 0:
			line = fmt.Sprintf("// comment line %d describing the function below\n", i)
		case 1:
			line = fmt.Sprintf("int compute_%d(int a, int b) {\n", i)
		case 2:
			line = fmt.Sprintf("    const char* label = \"value-%d\";\n", rng.Intn(10000))
		case 3:
			line = "    return a + b;\n"
		default:
			line = "}\n"
		}
		n, err := w.WriteString(line)
		if err != nil {
			return written, err
		}
		written += n
	}
	return written, nil
}
