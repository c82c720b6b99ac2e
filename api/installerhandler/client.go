package installerhandler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oneagent-tests/installer-server/api"
	"github.com/oneagent-tests/installer-server/interfaces"
)

// InstallerURL builds the download URL for an installer. A version of
// "latest" selects the latest route.
func InstallerURL(baseURL, system, arch, version string) string {
	path := fmt.Sprintf("%s/%s/default/latest", InstallerAPIPrefix, url.PathEscape(system))
	if version != interfaces.LatestVersion {
		path = fmt.Sprintf("%s/%s/default/version/%s", InstallerAPIPrefix, url.PathEscape(system), url.PathEscape(version))
	}
	q := url.Values{}
	if arch != "" {
		q.Set(ArchQueryParam, arch)
	}
	u := strings.TrimSuffix(baseURL, "/") + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// Download fetches an installer from the server at baseURL and copies it to
// dst. Non-200 answers are returned as *api.RequestError carrying the
// server's message.
func Download(client *http.Client, baseURL, system, arch, version string, dst io.Writer) (int64, error) {
	req, err := http.NewRequest(http.MethodGet, InstallerURL(baseURL, system, arch, version), nil)
	if err != nil {
		return 0, fmt.Errorf("could not initialize request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("could not request installer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, &api.RequestError{
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(body))),
		}
	}

	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		return n, fmt.Errorf("could not read installer: %w", err)
	}
	return n, nil
}
