// Package datasetindex fetches the dataset-index JSON blob from a dataset
// server and resolves the minimizer-index entry whose version matches the
// program's MinimizerIndexAlgoVersion, mirroring download_datasets_index_json
// in the original nextclade_seq_sort.rs.
package datasetindex

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/nextstrain/nextclade-sort/minimizer"
	"github.com/pkg/errors"
)

// indexPath is the well-known path of the dataset-index document relative
// to a dataset server's base URL.
const indexPath = "/index.json"

type minimizerIndexEntry struct {
	Version string `json:"version"`
	Path    string `json:"path"`
}

type datasetIndexDocument struct {
	MinimizerIndex []minimizerIndexEntry `json:"minimizerIndex"`
}

// FetchMinimizerIndex fetches the dataset-index document from server, then
// fetches and parses whichever listed minimizer-index blob matches
// minimizer.MinimizerIndexAlgoVersion. Both fetches are single-attempt, per
// spec.md §7 ("there are no retries; the dataset-index HTTP fetch is a
// single attempt").
func FetchMinimizerIndex(server string) (*minimizer.Index, error) {
	body, err := httpGet(joinURL(server, indexPath))
	if err != nil {
		return nil, errors.Wrap(err, "fetching dataset index")
	}

	var doc datasetIndexDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing dataset index JSON")
	}

	var path string
	for _, entry := range doc.MinimizerIndex {
		if entry.Version == minimizer.MinimizerIndexAlgoVersion {
			path = entry.Path
			break
		}
	}
	if path == "" {
		versions := make([]string, len(doc.MinimizerIndex))
		for i, e := range doc.MinimizerIndex {
			versions[i] = e.Version
		}
		return nil, errors.Errorf(
			"no minimizer index with version %q found on server %q (server has: %s); "+
				"upgrade nextclade-sort or ask the dataset maintainers to publish a compatible index",
			minimizer.MinimizerIndexAlgoVersion, server, strings.Join(versions, ", "))
	}

	indexBody, err := httpGet(joinURL(server, path))
	if err != nil {
		return nil, errors.Wrapf(err, "fetching minimizer index from %q", path)
	}

	return minimizer.ParseIndex(indexBody)
}

func httpGet(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %q", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("GET %q: unexpected status %q", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading response body from %q", url)
	}
	return data, nil
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
