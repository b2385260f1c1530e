//
// Stockade - a parallel UCI chess engine in Go
//
// MIT License
//
// Copyright (c) 2020-2022 The Stockade authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

package uci

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// OptionKind is the UCI type of an option. Each kind carries its own
// payload fields in Option - a tagged variant rather than
// type-erased storage.
type OptionKind int

// Option kinds.
const (
	SpinInt OptionKind = iota
	SpinFloat
	Check
	Combo
	Button
	String
)

// optionHandler is called after an option's value changed through
// "setoption".
type optionHandler func(h *Handler, o *Option)

// Option is one entry of the option registry.
type Option struct {
	Name string
	Kind OptionKind

	// AllowDuringSearch marks options which may be changed while
	// the engine is thinking.
	AllowDuringSearch bool

	// SpinInt payload
	IntValue, IntDefault, IntMin, IntMax int64

	// SpinFloat payload
	FloatValue, FloatDefault, FloatMin, FloatMax float64

	// Check payload
	CheckValue, CheckDefault bool

	// Combo / String payload
	StringValue, StringDefault string
	ComboValues                []string

	onChange optionHandler
}

// OptionList is the option registry. The list is kept sorted by
// name - insertion finds the slot with a binary search - so the
// "option name ..." enumeration during "uci" is stable.
type OptionList struct {
	options []*Option
}

// NewOptionList creates an empty registry.
func NewOptionList() *OptionList {
	return &OptionList{}
}

// insert places a new option at its sorted position and returns it.
func (l *OptionList) insert(name string) *Option {
	o := &Option{Name: name}
	i := sort.Search(len(l.options), func(i int) bool {
		return l.options[i].Name >= name
	})
	l.options = append(l.options, nil)
	copy(l.options[i+1:], l.options[i:])
	l.options[i] = o
	return o
}

// Get returns the option with the given name.
func (l *OptionList) Get(name string) (*Option, bool) {
	i := sort.Search(len(l.options), func(i int) bool {
		return l.options[i].Name >= name
	})
	if i < len(l.options) && l.options[i].Name == name {
		return l.options[i], true
	}
	return nil, false
}

// All returns the options in name order.
func (l *OptionList) All() []*Option {
	return l.options
}

// Len returns the number of registered options.
func (l *OptionList) Len() int {
	return len(l.options)
}

// AddSpinInt registers an integer spin option.
func (l *OptionList) AddSpinInt(name string, def, min, max int64, fn optionHandler) *Option {
	o := l.insert(name)
	o.Kind = SpinInt
	o.IntValue, o.IntDefault, o.IntMin, o.IntMax = def, def, min, max
	o.onChange = fn
	return o
}

// AddSpinFloat registers a float spin option.
func (l *OptionList) AddSpinFloat(name string, def, min, max float64, fn optionHandler) *Option {
	o := l.insert(name)
	o.Kind = SpinFloat
	o.FloatValue, o.FloatDefault, o.FloatMin, o.FloatMax = def, def, min, max
	o.onChange = fn
	return o
}

// AddCheck registers a boolean option.
func (l *OptionList) AddCheck(name string, def bool, fn optionHandler) *Option {
	o := l.insert(name)
	o.Kind = Check
	o.CheckValue, o.CheckDefault = def, def
	o.onChange = fn
	return o
}

// AddCombo registers a combo option with the allowed values.
func (l *OptionList) AddCombo(name string, def string, values []string, fn optionHandler) *Option {
	o := l.insert(name)
	o.Kind = Combo
	o.StringValue, o.StringDefault = def, def
	o.ComboValues = values
	o.onChange = fn
	return o
}

// AddButton registers a button option.
func (l *OptionList) AddButton(name string, fn optionHandler) *Option {
	o := l.insert(name)
	o.Kind = Button
	o.onChange = fn
	return o
}

// AddString registers a string option.
func (l *OptionList) AddString(name string, def string, fn optionHandler) *Option {
	o := l.insert(name)
	o.Kind = String
	o.StringValue, o.StringDefault = def, def
	o.onChange = fn
	return o
}

// setValue parses and applies a new value according to the option's
// kind. Spin values are clamped into [min, max], combo values must
// be one of the allowed values. Returns false when the value does
// not parse.
func (o *Option) setValue(value string) bool {
	switch o.Kind {
	case SpinInt:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return false
		}
		if v < o.IntMin {
			v = o.IntMin
		}
		if v > o.IntMax {
			v = o.IntMax
		}
		o.IntValue = v
	case SpinFloat:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		if v < o.FloatMin {
			v = o.FloatMin
		}
		if v > o.FloatMax {
			v = o.FloatMax
		}
		o.FloatValue = v
	case Check:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return false
		}
		o.CheckValue = v
	case Combo:
		for _, allowed := range o.ComboValues {
			if strings.EqualFold(allowed, value) {
				o.StringValue = allowed
				return true
			}
		}
		return false
	case Button:
		// buttons have no value
	case String:
		o.StringValue = value
	}
	return true
}

// String returns the option in the form required by the UCI
// protocol's "option name ..." response.
func (o *Option) String() string {
	var sb strings.Builder
	sb.WriteString("option name ")
	sb.WriteString(o.Name)
	sb.WriteString(" type ")
	switch o.Kind {
	case SpinInt:
		sb.WriteString(fmt.Sprintf("spin default %d min %d max %d", o.IntDefault, o.IntMin, o.IntMax))
	case SpinFloat:
		sb.WriteString(fmt.Sprintf("spin default %g min %g max %g", o.FloatDefault, o.FloatMin, o.FloatMax))
	case Check:
		sb.WriteString(fmt.Sprintf("check default %t", o.CheckDefault))
	case Combo:
		sb.WriteString("combo default ")
		sb.WriteString(o.StringDefault)
		for _, v := range o.ComboValues {
			sb.WriteString(" var ")
			sb.WriteString(v)
		}
	case Button:
		sb.WriteString("button")
	case String:
		sb.WriteString("string default ")
		sb.WriteString(o.StringDefault)
	}
	return sb.String()
}
