package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"career-matching-workers/internal/common/errors"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// maxResultWindow is the default index.max_result_window.
const maxResultWindow = 10000

// ElasticsearchSource reads active programs from a search index whose
// documents use the Program JSON layout.
type ElasticsearchSource struct {
	client *elasticsearch.Client
	index  string
	size   int
}

func NewElasticsearchSource(client *elasticsearch.Client, index string, maxPrograms int) *ElasticsearchSource {
	if maxPrograms <= 0 || maxPrograms > maxResultWindow {
		maxPrograms = maxResultWindow
	}
	return &ElasticsearchSource{client: client, index: index, size: maxPrograms}
}

func (s *ElasticsearchSource) Name() string { return "elasticsearch" }

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string  `json:"_id"`
			Source Program `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func buildProgramsQuery() map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must_not": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"active": false}},
				},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"programId": map[string]interface{}{"order": "asc"}},
		},
	}
}

func (s *ElasticsearchSource) Fetch(ctx context.Context) ([]Program, error) {
	body, err := json.Marshal(buildProgramsQuery())
	if err != nil {
		return nil, errors.NewCatalogLoadFailedError(s.Name(), err)
	}

	size := s.size
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, errors.NewCatalogLoadFailedError(s.Name(), err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewCatalogLoadFailedError(s.Name(), fmt.Errorf("search failed: %s", res.String()))
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, errors.NewCatalogLoadFailedError(s.Name(), err)
	}

	programs := make([]Program, 0, len(sr.Hits.Hits))
	for _, hit := range sr.Hits.Hits {
		p := hit.Source
		if p.ID == "" {
			p.ID = hit.ID
		}
		if p.CutoffsByYear == nil {
			p.CutoffsByYear = map[int]float64{}
		}
		programs = append(programs, p)
	}
	return programs, nil
}
