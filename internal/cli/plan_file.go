package cli

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/mworkman/reef/internal/reconcile"
	"github.com/mworkman/reef/internal/task"
)

// planFile is the on-disk shape of a planning batch.
type planFile struct {
	// Analysis applies to every task in the batch that has none of its
	// own.
	Analysis string            `yaml:"analysis" json:"analysis"`
	Tasks    []reconcile.Draft `yaml:"tasks" json:"tasks"`
}

// parsePlanFile reads a batch of task drafts from YAML or JSON.
//
// JSON goes through a tolerant path: LLM-produced plans frequently wrap
// the payload in extra keys or emit a bare array, so fields are pulled
// out individually instead of strict-decoding the document.
func parsePlanFile(data []byte, path string) ([]reconcile.Draft, string, error) {
	if isJSONPlan(data, path) {
		return parseJSONPlan(data)
	}

	var pf planFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, "", fmt.Errorf("parse plan %s: %w", path, err)
	}
	return pf.Tasks, pf.Analysis, nil
}

func isJSONPlan(data []byte, path string) bool {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return true
	}
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

func parseJSONPlan(data []byte) ([]reconcile.Draft, string, error) {
	if !gjson.ValidBytes(data) {
		return nil, "", fmt.Errorf("parse plan: malformed JSON")
	}
	doc := gjson.ParseBytes(data)

	list := doc
	if !doc.IsArray() {
		list = doc.Get("tasks")
		if !list.Exists() {
			return nil, "", fmt.Errorf("parse plan: no tasks array found")
		}
	}

	var drafts []reconcile.Draft
	list.ForEach(func(_, item gjson.Result) bool {
		d := reconcile.Draft{
			Name:                 item.Get("name").String(),
			Description:          item.Get("description").String(),
			Notes:                item.Get("notes").String(),
			ImplementationGuide:  item.Get("implementationGuide").String(),
			VerificationCriteria: item.Get("verificationCriteria").String(),
		}
		item.Get("dependencies").ForEach(func(_, dep gjson.Result) bool {
			// Accept both bare tokens and {"taskId": ...} objects.
			if dep.IsObject() {
				d.Dependencies = append(d.Dependencies, dep.Get("taskId").String())
			} else {
				d.Dependencies = append(d.Dependencies, dep.String())
			}
			return true
		})
		item.Get("relatedFiles").ForEach(func(_, rf gjson.Result) bool {
			f := task.RelatedFile{
				Path:        rf.Get("path").String(),
				Type:        task.RelatedFileType(rf.Get("type").String()),
				Description: rf.Get("description").String(),
			}
			if v := rf.Get("lineStart"); v.Exists() {
				n := int(v.Int())
				f.LineStart = &n
			}
			if v := rf.Get("lineEnd"); v.Exists() {
				n := int(v.Int())
				f.LineEnd = &n
			}
			d.RelatedFiles = append(d.RelatedFiles, f)
			return true
		})
		drafts = append(drafts, d)
		return true
	})

	return drafts, doc.Get("analysis").String(), nil
}
