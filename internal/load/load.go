// Package load fetches JSON documents from local files, standard input,
// plain HTTP(S) URLs and GitHub or GitLab repositories.
package load

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/logging"

	"github.com/pulumi/json-equals/internal/jsontree"
)

// Stdin is the location that reads from standard input.
const Stdin = "-"

var (
	ErrEmptyLocation     = errors.New("empty document location")
	ErrUnsupportedScheme = errors.New("unsupported document scheme")
)

// Loader resolves document locations.
type Loader struct {
	// Stdin is read for the "-" location. It defaults to os.Stdin.
	Stdin io.Reader
}

// Bytes reads the raw document at location. Supported forms are a file path,
// "file:<path>", "-", http(s) URLs and
// github://<host>/<owner>/<repo>/<path>[?ref=<ref>] or the gitlab:// equivalent.
func (l Loader) Bytes(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, ErrEmptyLocation
	}
	if location == Stdin {
		in := l.Stdin
		if in == nil {
			in = os.Stdin
		}
		return io.ReadAll(in)
	}

	u, err := url.Parse(location)
	// A single letter scheme is a Windows drive.
	if err != nil || len(u.Scheme) <= 1 {
		return readFile(location)
	}

	var source GitSource
	switch u.Scheme {
	case "file":
		return readFile(strings.TrimPrefix(location, "file:"))
	case "http", "https":
		return fetch(ctx, location)
	case "github":
		source, err = newGithubSource(u)
	case "gitlab":
		source, err = newGitlabSource(u)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
	if err != nil {
		return nil, err
	}

	resp, _, err := source.Download(ctx, getHTTPResponse)
	if err != nil {
		return nil, err
	}
	defer contract.IgnoreClose(resp)
	return io.ReadAll(resp)
}

// Document reads and parses the document at location.
func (l Loader) Document(ctx context.Context, location string) (jsontree.Value, error) {
	data, err := l.Bytes(ctx, location)
	if err != nil {
		return jsontree.Value{}, err
	}
	v, err := jsontree.Parse(data)
	if err != nil {
		return jsontree.Value{}, fmt.Errorf("%s: %w", location, err)
	}
	return v, nil
}

// Document reads and parses the document at location with a default Loader.
func Document(ctx context.Context, location string) (jsontree.Value, error) {
	return Loader{}.Document(ctx, location)
}

func readFile(path string) ([]byte, error) {
	logging.V(9).Infof("reading document from %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), nil
}

func fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := buildHTTPRequest(ctx, location, "")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, _, err := getHTTPResponse(req)
	if err != nil {
		return nil, err
	}
	defer contract.IgnoreClose(resp)
	return io.ReadAll(resp)
}

func getHTTPResponse(req *http.Request) (io.ReadCloser, int64, error) {
	logging.V(9).Infof("full document download url: %s", req.URL)
	// This logs at level 11 because it could include authentication headers, we reserve log level 11 for
	// detailed api logs that may include credentials.
	logging.V(11).Infof("document request headers: %v", req.Header)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, -1, err
	}

	logging.V(11).Infof("document response headers: %v", resp.Header)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		contract.IgnoreClose(resp.Body)
		return nil, -1, newDownloadError(resp.StatusCode, req.URL, resp.Header)
	}

	return resp.Body, resp.ContentLength, nil
}
