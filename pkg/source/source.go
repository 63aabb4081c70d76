package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/gtreader/pkg/errors"
)

// NetzschleuderBase is the root of the Netzschleuder repository.
const NetzschleuderBase = "https://networks.skewed.de"

// nsPrefix marks Netzschleuder references.
const nsPrefix = "ns:"

// Kind says where a payload came from.
type Kind string

const (
	KindFile          Kind = "file"
	KindURL           Kind = "url"
	KindNetzschleuder Kind = "netzschleuder"
)

// Payload is one complete, still-compressed gt buffer.
type Payload struct {
	Ref    string // reference as given
	URL    string // resolved URL for remote payloads
	Kind   Kind
	Data   []byte
	Cached bool // served from the fetch cache
}

// NetzschleuderURL returns the download URL of a Netzschleuder network.
// An empty subnet means the network's main graph, named like the network.
func NetzschleuderURL(network, subnet string) (string, error) {
	if subnet == "" {
		subnet = network
	}
	if err := errors.ValidateNetworkName(network); err != nil {
		return "", err
	}
	if err := errors.ValidateNetworkName(subnet); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/net/%s/files/%s.gt.zst", NetzschleuderBase, network, subnet), nil
}

// ParseRef classifies ref and resolves Netzschleuder references to URLs.
func ParseRef(ref string) (Kind, string, error) {
	if err := errors.ValidateSource(ref); err != nil {
		return "", "", err
	}
	switch {
	case strings.HasPrefix(ref, nsPrefix):
		network, subnet, _ := strings.Cut(strings.TrimPrefix(ref, nsPrefix), "/")
		url, err := NetzschleuderURL(network, subnet)
		return KindNetzschleuder, url, err
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return KindURL, ref, nil
	}
	return KindFile, ref, nil
}

// ReadFile reads a local gt file, refusing files larger than maxBytes
// (zero means no limit).
func ReadFile(path string, maxBytes int64) ([]byte, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
	}
	if info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is a directory", path)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return nil, errors.New(errors.ErrCodeTooLarge,
			"%s is %d bytes, limit is %d", path, info.Size(), maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return data, nil
}

// Open resolves ref and returns its bytes.
func (f *Fetcher) Open(ctx context.Context, ref string) (*Payload, error) {
	kind, target, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}
	if kind == KindFile {
		data, err := ReadFile(target, f.maxBytes)
		if err != nil {
			return nil, err
		}
		return &Payload{Ref: ref, Kind: kind, Data: data}, nil
	}

	data, cached, err := f.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}
	return &Payload{Ref: ref, URL: target, Kind: kind, Data: data, Cached: cached}, nil
}
