package load

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/logging"

	"github.com/pulumi/json-equals/version"
)

// GitSource deals with downloading individual files from a specific git repository over HTTPS
type GitSource interface {
	// Download fetches an io.ReadCloser for the document and also returns the size of the response (if known).
	Download(
		ctx context.Context,
		getHTTPResponse func(*http.Request) (io.ReadCloser, int64, error)) (io.ReadCloser, int64, error)
}

// repoFile is the parsed form of <scheme>://<host>/<owner>/<repo>/<path>?ref=<ref>.
type repoFile struct {
	host  string
	owner string
	repo  string
	path  string
	ref   string
}

func parseRepoFile(u *url.URL) (repoFile, error) {
	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 3)
	if u.Host == "" {
		return repoFile{}, fmt.Errorf("%s:// url must have a host part, was: %s", u.Scheme, u)
	}
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return repoFile{}, fmt.Errorf(
			"%s:// url must have the format <host>/<owner>/<repository>/<path>, was: %s",
			u.Scheme, u)
	}
	return repoFile{
		host:  u.Host,
		owner: parts[0],
		repo:  parts[1],
		path:  parts[2],
		ref:   u.Query().Get("ref"),
	}, nil
}

// gitlabSource can download a file from a gitlab repository.
type gitlabSource struct {
	repoFile

	token string
}

// Creates a new GitLab source from a gitlab://<host>/<owner>/<project>/<path> url.
// Uses the GITLAB_TOKEN environment variable for authentication if it's set.
func newGitlabSource(u *url.URL) (*gitlabSource, error) {
	contract.Requiref(u.Scheme == "gitlab", "url", `scheme must be "gitlab", was %q`, u.Scheme)

	file, err := parseRepoFile(u)
	if err != nil {
		return nil, err
	}
	if file.ref == "" {
		file.ref = "HEAD"
	}

	return &gitlabSource{
		repoFile: file,
		token:    os.Getenv("GITLAB_TOKEN"),
	}, nil
}

func (source *gitlabSource) Download(
	ctx context.Context,
	getHTTPResponse func(*http.Request) (io.ReadCloser, int64, error),
) (io.ReadCloser, int64, error) {
	assetName := url.QueryEscape(source.path)
	project := url.QueryEscape(fmt.Sprintf("%s/%s", source.owner, source.repo))

	// Gitlab Files API: https://docs.gitlab.com/ee/api/repository_files.html
	assetURL := fmt.Sprintf(
		"https://%s/api/v4/projects/%s/repository/files/%s/raw?ref=%s",
		source.host, project, assetName, url.QueryEscape(source.ref))
	logging.V(1).Infof("downloading document from %s", assetURL)

	var authorization string
	if source.token != "" {
		authorization = fmt.Sprintf("Bearer %s", source.token)
	}
	req, err := buildHTTPRequest(ctx, assetURL, authorization)
	if err != nil {
		return nil, -1, err
	}
	req.Header.Set("Accept", "application/octet-stream")
	return getHTTPResponse(req)
}

// githubSource can download a file from a github repository.
type githubSource struct {
	repoFile

	token string
}

// Creates a new github source adding authentication data in the environment, if it exists
func newGithubSource(u *url.URL) (*githubSource, error) {
	contract.Requiref(u.Scheme == "github", "url", `scheme must be "github", was %q`, u.Scheme)

	file, err := parseRepoFile(u)
	if err != nil {
		return nil, err
	}

	return &githubSource{
		repoFile: file,
		token:    os.Getenv("GITHUB_TOKEN"),
	}, nil
}

func (source *githubSource) getHTTPResponse(
	getHTTPResponse func(*http.Request) (io.ReadCloser, int64, error),
	req *http.Request,
) (io.ReadCloser, int64, error) {
	resp, length, err := getHTTPResponse(req)
	if err == nil {
		return resp, length, nil
	}

	// Wrap 403 rate limit errors with a more helpful message.
	var downErr *downloadError
	if !errors.As(err, &downErr) || downErr.code != 403 {
		return nil, -1, err
	}

	// This is a rate limiting error only if x-ratelimit-remaining is 0.
	// https://docs.github.com/en/rest/overview/resources-in-the-rest-api?apiVersion=2022-11-28#exceeding-the-rate-limit
	if downErr.header.Get("x-ratelimit-remaining") != "0" {
		return nil, -1, err
	}

	tryAgain := "."
	if reset, err := strconv.ParseInt(downErr.header.Get("x-ratelimit-reset"), 10, 64); err == nil {
		delay := time.Until(time.Unix(reset, 0).UTC())
		tryAgain = fmt.Sprintf(", try again in %s.", delay)
	}

	addAuth := ""
	if source.token == "" {
		addAuth = " You can set GITHUB_TOKEN to make an authenticated request with a higher rate limit."
	}

	logging.Errorf("GitHub rate limit exceeded for %s%s%s", req.URL, tryAgain, addAuth)
	return nil, -1, fmt.Errorf("rate limit exceeded: %w", err)
}

func (source *githubSource) Download(
	ctx context.Context,
	getHTTPResponse func(*http.Request) (io.ReadCloser, int64, error),
) (io.ReadCloser, int64, error) {
	fileURL := fmt.Sprintf("https://%s/repos/%s/%s/contents/%s",
		source.host, source.owner, source.repo, source.path)
	if source.ref != "" {
		fileURL += "?ref=" + url.QueryEscape(source.ref)
	}
	logging.V(9).Infof("GitHub document url: %s", fileURL)

	var authorization string
	if source.token != "" {
		authorization = fmt.Sprintf("token %s", source.token)
	}
	req, err := buildHTTPRequest(ctx, fileURL, authorization)
	if err != nil {
		return nil, -1, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3.raw")
	return source.getHTTPResponse(getHTTPResponse, req)
}

func buildHTTPRequest(ctx context.Context, endpoint string, authorization string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	userAgent := fmt.Sprintf("json-equals/%s (%s)", version.Version, runtime.GOOS)
	req.Header.Set("User-Agent", userAgent)

	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	return req, nil
}

// downloadError is an error that happened during the HTTP download of a document.
type downloadError struct {
	msg    string
	code   int
	header http.Header
}

func (e *downloadError) Error() string {
	return e.msg
}

// StatusCode is the HTTP status of the failed download.
func (e *downloadError) StatusCode() int {
	return e.code
}

// Create a new downloadError with a message that indicates GITHUB_TOKEN should be set.
func newGithubPrivateRepoError(statusCode int, url *url.URL) error {
	return &downloadError{
		code: statusCode,
		msg: fmt.Sprintf("%d HTTP error fetching document from %s. "+
			"If this is a private GitHub repository, try "+
			"providing a token via the GITHUB_TOKEN environment variable. "+
			"See: https://github.com/settings/tokens",
			statusCode, url),
	}
}

// Create a new downloadError.
func newDownloadError(statusCode int, url *url.URL, header http.Header) error {
	if url.Host == "api.github.com" && statusCode == 404 {
		return newGithubPrivateRepoError(statusCode, url)
	}
	return &downloadError{
		code:   statusCode,
		msg:    fmt.Sprintf("%d HTTP error fetching document from %s", statusCode, url),
		header: header,
	}
}
