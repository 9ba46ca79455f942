package iorepair

import (
	"fmt"

	"github.com/gnames/cfgrepair/pkg/repair"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// prettyOpts gives 4-space indentation and keeps every array element on
// its own line. Keys stay in document order.
var prettyOpts = &pretty.Options{Width: 0, Indent: "    "}

// Clean removes "default" from every required column of a configuration
// document. It returns the repaired document pretty-printed, and the list
// of removals. If nothing was removed data is returned untouched.
//
// The document is never decoded into Go values. Fields the pass does not
// look at keep their order and their literal text.
func Clean(data []byte) ([]byte, []repair.Removal, error) {
	if !gjson.ValidBytes(data) {
		return nil, nil, ParseDocumentError(data)
	}

	removals := scan(gjson.ParseBytes(data))
	if len(removals) == 0 {
		return data, nil, nil
	}

	res := data
	var err error
	for _, v := range removals {
		path := defaultPath(v)
		// duplicate keys are legal JSON, remove every copy
		for gjson.GetBytes(res, path).Exists() {
			res, err = sjson.DeleteBytes(res, path)
			if err != nil {
				return nil, nil, UpdateDocumentError(path, err)
			}
		}
	}

	return pretty.PrettyOptions(res, prettyOpts), removals, nil
}

// scan finds required columns that carry a default.
func scan(doc gjson.Result) []repair.Removal {
	if !doc.IsObject() {
		return nil
	}
	// containers are looked up the way sjson finds them on removal
	tables := doc.Get("tables")
	if !tables.IsArray() {
		return nil
	}

	var res []repair.Removal
	for ti, table := range tables.Array() {
		if !table.IsObject() {
			continue
		}
		columns := table.Get("columns")
		if !columns.IsArray() {
			continue
		}
		name := label(lastValue(table, "name"))
		for ci, col := range columns.Array() {
			if !col.IsObject() {
				continue
			}
			def, ok := requiredDefault(col)
			if !ok {
				continue
			}
			res = append(res, repair.Removal{
				Table:       name,
				Column:      label(lastValue(col, "key")),
				TableIndex:  ti,
				ColumnIndex: ci,
				Default:     def,
			})
		}
	}
	return res
}

// requiredDefault returns the raw default of a column that is required
// and has a default.
func requiredDefault(col gjson.Result) (string, bool) {
	required := lastValue(col, "required")
	if required.Type != gjson.True {
		return "", false
	}
	def := lastValue(col, "default")
	if !def.Exists() {
		return "", false
	}
	return def.Raw, true
}

// lastValue returns the value of key in obj. With duplicate keys the last
// one wins, the way common JSON decoders do it.
func lastValue(obj gjson.Result, key string) gjson.Result {
	var res gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			res = v
		}
		return true
	})
	return res
}

func label(v gjson.Result) string {
	if !v.Exists() || v.Type == gjson.Null {
		return repair.Placeholder
	}
	return v.String()
}

func defaultPath(r repair.Removal) string {
	return fmt.Sprintf("tables.%d.columns.%d.default", r.TableIndex, r.ColumnIndex)
}
