package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"TrendLabeler/internal/collector"
	"TrendLabeler/internal/model"
)

// BaseName builds the file name stem for a dataset, e.g.
// dataset_zh_yahoo_000001_600000_in60_out20.
func BaseName(meta model.DatasetMeta) string {
	codes := strings.Join(meta.Codes, "_")
	if len(meta.Codes) > 3 {
		codes = fmt.Sprintf("%s_%dstocks", meta.Codes[0], len(meta.Codes))
	}
	return fmt.Sprintf("dataset_%s_%s_%s_in%d_out%d",
		meta.Market, meta.Source, collector.SanitizeCode(codes), meta.InputWindow, meta.OutputWindow)
}

// SaveJSON writes the dataset to path, creating parent directories.
func SaveJSON(path string, ds *model.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	return rename(tmp, path)
}

// LoadJSON reads a dataset written by SaveJSON.
func LoadJSON(path string) (*model.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ds model.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if ds.Train.Len() != len(ds.Train.Y) || ds.Val.Len() != len(ds.Val.Y) {
		return nil, fmt.Errorf("decode dataset: X and y lengths differ")
	}
	return &ds, nil
}

func rename(tmp, path string) error {
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// CSVHeader is the column layout of WriteCSV.
var CSVHeader = []string{
	"sample_id", "split", "code", "start", "label", "label_name", "input_list", "output_list",
}

// WriteCSV writes one row per sample, training split first.
func WriteCSV(path string, ds *model.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := writeRows(f, ds); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return rename(tmp, path)
}

func writeRows(f io.Writer, ds *model.Dataset) error {
	w := csv.NewWriter(f)
	if err := w.Write(CSVHeader); err != nil {
		return err
	}
	id := 0
	for _, part := range []struct {
		name  string
		split model.Split
	}{{"train", ds.Train}, {"val", ds.Val}} {
		for _, s := range part.split.Samples {
			if err := w.Write([]string{
				strconv.Itoa(id),
				part.name,
				s.Code,
				strconv.Itoa(s.Start),
				strconv.Itoa(s.Label.Label()),
				s.Label.String(),
				formatList(s.InputWindow),
				formatList(s.OutputWindow),
			}); err != nil {
				return err
			}
			id++
		}
	}
	w.Flush()
	return w.Error()
}

func formatList(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
