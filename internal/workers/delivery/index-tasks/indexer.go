package indextasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"meeting-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"run_id":         {"type": "keyword"},
			"task_number":    {"type": "integer"},
			"description":    {"type": "text"},
			"assigned_to":    {"type": "keyword"},
			"deadline":       {"type": "text"},
			"due_date":       {"type": "date", "format": "yyyy-MM-dd"},
			"priority":       {"type": "keyword"},
			"depends_on":     {"type": "integer"},
			"dependencies":   {"type": "text"},
			"reasoning":      {"type": "text"},
			"reference_date": {"type": "date", "format": "yyyy-MM-dd"},
			"indexed_at":     {"type": "date"}
		}
	}
}`

// DocumentID is the search document id of a task: the run id and task
// number joined by a dash.
func DocumentID(runID string, taskNumber int) string {
	return runID + "-" + strconv.Itoa(taskNumber)
}

// Indexer writes task records into one Elasticsearch index.
type Indexer struct {
	client  *elasticsearch.Client
	index   string
	refresh bool
	now     func() time.Time

	mu    sync.Mutex
	ready bool
}

func NewIndexer(client *elasticsearch.Client, index string, refresh bool) *Indexer {
	return &Indexer{
		client:  client,
		index:   index,
		refresh: refresh,
		now:     time.Now,
	}
}

// EnsureIndex creates the index with its mapping when it does not exist.
// A successful check is remembered for the life of the Indexer.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.ready {
		return nil
	}

	res, err := i.client.Indices.Exists([]string{i.index}, i.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrElasticsearchConnectionFailed, err)
	}
	res.Body.Close()

	switch {
	case res.StatusCode == 200:
	case res.StatusCode == 404:
		created, err := i.client.Indices.Create(
			i.index,
			i.client.Indices.Create.WithContext(ctx),
			i.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
		)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrElasticsearchConnectionFailed, err)
		}
		defer created.Body.Close()
		// 400 resource_already_exists_exception means another worker won the race.
		if created.IsError() && created.StatusCode != 400 {
			return fmt.Errorf("%w: create index %s: %s", ErrTaskIndexFailed, i.index, created.String())
		}
	default:
		return fmt.Errorf("%w: check index %s: %s", ErrTaskIndexFailed, i.index, res.Status())
	}

	i.ready = true
	return nil
}

// Index bulk-writes tasks and returns the ids of the stored documents in
// task order.
func (i *Indexer) Index(ctx context.Context, runID, referenceDate string, tasks []models.TaskRecord) ([]string, error) {
	if len(tasks) == 0 {
		return []string{}, nil
	}

	indexedAt := i.now().UTC().Format(time.RFC3339)
	var body bytes.Buffer
	ids := make([]string, len(tasks))
	for n, task := range tasks {
		ids[n] = DocumentID(runID, task.TaskNumber)

		meta, _ := json.Marshal(map[string]interface{}{
			"index": map[string]string{"_index": i.index, "_id": ids[n]},
		})
		doc, err := json.Marshal(taskDocument{
			RunID:         runID,
			TaskNumber:    task.TaskNumber,
			Description:   task.Description,
			AssignedTo:    task.AssignedTo,
			Deadline:      task.Deadline,
			DueDate:       task.DueDate,
			Priority:      string(task.Priority),
			DependsOn:     task.DependsOn,
			Dependencies:  task.DependencyText(),
			Reasoning:     task.Reasoning,
			ReferenceDate: referenceDate,
			IndexedAt:     indexedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: encode task %d: %v", ErrTaskIndexFailed, task.TaskNumber, err)
		}
		body.Write(meta)
		body.WriteByte('\n')
		body.Write(doc)
		body.WriteByte('\n')
	}

	opts := []func(*esapi.BulkRequest){i.client.Bulk.WithContext(ctx)}
	if i.refresh {
		opts = append(opts, i.client.Bulk.WithRefresh("wait_for"))
	}

	res, err := i.client.Bulk(&body, opts...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrIndexTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrElasticsearchConnectionFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrTaskIndexFailed, res.String())
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode bulk response: %v", ErrTaskIndexFailed, err)
	}
	if parsed.Errors {
		return nil, fmt.Errorf("%w: %s", ErrTaskIndexFailed, strings.Join(bulkFailures(parsed), "; "))
	}
	return ids, nil
}

func bulkFailures(res bulkResponse) []string {
	var failures []string
	for _, item := range res.Items {
		for _, result := range item {
			if result.Error != nil {
				failures = append(failures, fmt.Sprintf("%s: %s (%s)", result.ID, result.Error.Reason, result.Error.Type))
			}
		}
	}
	if len(failures) == 0 {
		failures = append(failures, "bulk request reported errors")
	}
	return failures
}

// TaskQuery filters indexed tasks. Empty fields are ignored.
type TaskQuery struct {
	RunID      string
	AssignedTo string
	Priority   models.PriorityLevel
	Size       int
}

// Search returns the stored tasks matching q, ordered by run and task
// number.
func (i *Indexer) Search(ctx context.Context, q TaskQuery) ([]models.TaskRecord, error) {
	filters := []interface{}{}
	if q.RunID != "" {
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"run_id": q.RunID}})
	}
	if q.AssignedTo != "" {
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"assigned_to": q.AssignedTo}})
	}
	if q.Priority != "" {
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"priority": string(q.Priority)}})
	}

	size := q.Size
	if size < 1 || size > 100 {
		size = 20
	}

	query, _ := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{"bool": map[string]interface{}{"filter": filters}},
		"sort": []interface{}{
			map[string]string{"run_id": "asc"},
			map[string]string{"task_number": "asc"},
		},
	})

	req := esapi.SearchRequest{
		Index: []string{i.index},
		Body:  bytes.NewReader(query),
		Size:  &size,
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrElasticsearchConnectionFailed, err)
	}
	defer res.Body.Close()

	// Nothing has been indexed yet.
	if res.StatusCode == http.StatusNotFound {
		return []models.TaskRecord{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: search: %s", ErrTaskIndexFailed, res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source taskDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", ErrTaskIndexFailed, err)
	}

	tasks := make([]models.TaskRecord, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		doc := hit.Source
		tasks = append(tasks, models.TaskRecord{
			TaskNumber:  doc.TaskNumber,
			Description: doc.Description,
			AssignedTo:  doc.AssignedTo,
			Deadline:    doc.Deadline,
			DueDate:     doc.DueDate,
			Priority:    models.ParsePriority(doc.Priority),
			DependsOn:   doc.DependsOn,
			Reasoning:   doc.Reasoning,
		})
	}
	return tasks, nil
}
