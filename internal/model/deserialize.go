package model

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Deserialize parses the canonical form produced by Commit.Serialize. It is
// the inverse operation and lives in the same file family as Serialize so
// the two stay in lockstep if the canonical form ever changes.
func Deserialize(raw []byte) (*Commit, error) {
	r := bufio.NewReader(bytes.NewReader(raw))

	line, err := readLine(r)
	if err != nil {
		return nil, fmt.Errorf("model: Deserialize: %w", err)
	}
	if line != "commit" {
		return nil, fmt.Errorf("model: Deserialize: not a commit object (got %q)", line)
	}

	author, err := readField(r, "author")
	if err != nil {
		return nil, err
	}
	tsLine, err := readField(r, "timestamp")
	if err != nil {
		return nil, err
	}
	nanos, err := strconv.ParseInt(tsLine, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("model: Deserialize: bad timestamp %q: %w", tsLine, err)
	}

	p1, err := readField(r, "parent")
	if err != nil {
		return nil, err
	}
	p2, err := readField(r, "parent")
	if err != nil {
		return nil, err
	}

	treeCountLine, err := readField(r, "tree")
	if err != nil {
		return nil, err
	}
	treeCount, err := strconv.Atoi(treeCountLine)
	if err != nil {
		return nil, fmt.Errorf("model: Deserialize: bad tree count %q: %w", treeCountLine, err)
	}

	tree := make(map[string]string, treeCount)
	for i := 0; i < treeCount; i++ {
		entryLine, err := readLine(r)
		if err != nil {
			return nil, fmt.Errorf("model: Deserialize: tree entry %d: %w", i, err)
		}
		idx := strings.IndexByte(entryLine, 0)
		if idx < 0 {
			return nil, fmt.Errorf("model: Deserialize: malformed tree entry %q", entryLine)
		}
		tree[entryLine[:idx]] = entryLine[idx+1:]
	}

	msgLenLine, err := readField(r, "message")
	if err != nil {
		return nil, err
	}
	msgLen, err := strconv.Atoi(msgLenLine)
	if err != nil {
		return nil, fmt.Errorf("model: Deserialize: bad message length %q: %w", msgLenLine, err)
	}
	msgBytes := make([]byte, msgLen)
	if msgLen > 0 {
		if _, err := readFull(r, msgBytes); err != nil {
			return nil, fmt.Errorf("model: Deserialize: message: %w", err)
		}
	}

	c := &Commit{
		Author:    author,
		Message:   string(msgBytes),
		Timestamp: time.Unix(0, nanos).UTC(),
		Tree:      tree,
	}
	if p2 == NoParent {
		if p1 == NoParent {
			c.Parents = []string{NoParent}
		} else {
			c.Parents = []string{p1}
		}
	} else {
		c.Parents = []string{p1, p2}
	}
	return c, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// readField reads a line of the form "<name> <value>" and returns value.
func readField(r *bufio.Reader, name string) (string, error) {
	line, err := readLine(r)
	if err != nil {
		return "", fmt.Errorf("model: Deserialize: reading %s: %w", name, err)
	}
	prefix := name + " "
	if !strings.HasPrefix(line, prefix) {
		return "", fmt.Errorf("model: Deserialize: expected field %q, got %q", name, line)
	}
	return strings.TrimPrefix(line, prefix), nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
