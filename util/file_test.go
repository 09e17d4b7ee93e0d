package util

import (
	"os"
	"path"
	"testing"
)

func TestAppendToFile(t *testing.T) {
	file := path.Join(t.TempDir(), "lines.jsonl")
	if err := AppendToFile(file, "a", "b"); err != nil {
		t.Fatal(err)
	}
	if err := AppendToFile(file, "c"); err != nil {
		t.Fatal(err)
	}
	bs, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(bs) != "a\nb\nc\n" {
		t.Errorf("unexpected contents %q", string(bs))
	}
}

func TestWriteToFile(t *testing.T) {
	file := path.Join(t.TempDir(), "out.txt")
	if err := WriteToFile(file, "old"); err != nil {
		t.Fatal(err)
	}
	if err := WriteToFile(file, "x", "y"); err != nil {
		t.Fatal(err)
	}
	bs, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(bs) != "x\ny\n" {
		t.Errorf("unexpected contents %q", string(bs))
	}
}
