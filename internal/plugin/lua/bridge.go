package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ToGo converts a Lua value to a Go value. Tables become []any when
// they are contiguous 1-based arrays and map[string]any otherwise.
// Circular tables are broken with nil.
func ToGo(lv lua.LValue) any {
	return toGoVisited(lv, make(map[*lua.LTable]bool))
}

func toGoVisited(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return tableToGo(v, visited)
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	if n > 0 {
		count := 0
		t.ForEach(func(_, _ lua.LValue) { count++ })
		if count == n {
			arr := make([]any, n)
			for i := 1; i <= n; i++ {
				arr[i-1] = toGoVisited(t.RawGetInt(i), visited)
			}
			return arr
		}
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = toGoVisited(v, visited)
	})
	return m
}

// ToLua converts a Go value to a Lua value.
func ToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []string:
		t := L.NewTable()
		for _, s := range val {
			t.Append(lua.LString(s))
		}
		return t
	case []any:
		t := L.NewTable()
		for _, item := range val {
			t.Append(ToLua(L, item))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, item := range val {
			L.SetField(t, k, ToLua(L, item))
		}
		return t
	default:
		return lua.LNil
	}
}

// DecodeCube decodes a Lua table into a band-major data cube. A 3-level
// table is read as band x row x col; a 2-level table is promoted to a
// single band so plugins can pass flat grids directly. Anything else
// fails with ErrBadCube. Ragged shapes are allowed through here; the
// layer store rejects them.
func DecodeCube(lv lua.LValue) ([][][]float64, error) {
	t, ok := lv.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrBadCube, lv.Type())
	}

	n := t.Len()
	if n == 0 {
		return [][][]float64{}, nil
	}

	switch first := t.RawGetInt(1).(type) {
	case *lua.LTable:
		if _, deep := first.RawGetInt(1).(*lua.LTable); deep {
			cube := make([][][]float64, 0, n)
			for i := 1; i <= n; i++ {
				band, err := decodeGrid(t.RawGetInt(i))
				if err != nil {
					return nil, fmt.Errorf("band %d: %w", i, err)
				}
				cube = append(cube, band)
			}
			return cube, nil
		}

		grid, err := decodeGrid(t)
		if err != nil {
			return nil, err
		}
		return [][][]float64{grid}, nil
	default:
		return nil, fmt.Errorf("%w: expected nested tables", ErrBadCube)
	}
}

func decodeGrid(lv lua.LValue) ([][]float64, error) {
	t, ok := lv.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: row group is %s", ErrBadCube, lv.Type())
	}

	n := t.Len()
	grid := make([][]float64, 0, n)
	for i := 1; i <= n; i++ {
		row, err := decodeRow(t.RawGetInt(i))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		grid = append(grid, row)
	}
	return grid, nil
}

func decodeRow(lv lua.LValue) ([]float64, error) {
	t, ok := lv.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: row is %s", ErrBadCube, lv.Type())
	}

	n := t.Len()
	row := make([]float64, 0, n)
	for i := 1; i <= n; i++ {
		num, ok := t.RawGetInt(i).(lua.LNumber)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is not a number", ErrBadCube, i)
		}
		row = append(row, float64(num))
	}
	return row, nil
}

// DecodeStrings decodes a Lua array table into a string slice.
// LNil decodes to nil, which callers treat as "not supplied".
func DecodeStrings(lv lua.LValue) ([]string, error) {
	if lv == lua.LNil {
		return nil, nil
	}
	t, ok := lv.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("expected a table of strings, got %s", lv.Type())
	}

	n := t.Len()
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		s, ok := t.RawGetInt(i).(lua.LString)
		if !ok {
			return nil, fmt.Errorf("element %d is not a string", i)
		}
		out = append(out, string(s))
	}
	return out, nil
}

// DecodeMetadata decodes an optional Lua table into a metadata map.
func DecodeMetadata(lv lua.LValue) (map[string]any, error) {
	if lv == lua.LNil {
		return nil, nil
	}
	t, ok := lv.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("expected a metadata table, got %s", lv.Type())
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = ToGo(v)
	})
	return m, nil
}
