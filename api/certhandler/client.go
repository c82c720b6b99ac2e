package certhandler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/oneagent-tests/installer-server/api"
)

// FetchCACertificate downloads the CA certificate served as name by the
// server at baseURL.
func FetchCACertificate(client *http.Client, baseURL, name string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, strings.TrimSuffix(baseURL, "/")+"/"+name, nil)
	if err != nil {
		return nil, fmt.Errorf("could not initialize request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not request ca certificate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read ca certificate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &api.RequestError{
			StatusCode: resp.StatusCode,
			Err:        errors.New(string(body)),
		}
	}
	return body, nil
}
