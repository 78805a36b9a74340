/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package query

// Order is a sort direction.
type Order int

const (
	Asc Order = iota
	Desc
)

func (o Order) String() string {
	if o == Desc {
		return "DESC"
	}
	return "ASC"
}

// NullHandling places NULL values before or after the others.
type NullHandling int

const (
	NullsDefault NullHandling = iota
	NullsFirst
	NullsLast
)

// OrderSpecifier is one ORDER BY item.
type OrderSpecifier struct {
	target string
	order  Order
	nulls  NullHandling
}

// NullsFirst sorts NULL values first. Not supported by MySQL.
func (o OrderSpecifier) NullsFirst() OrderSpecifier {
	o.nulls = NullsFirst
	return o
}

// NullsLast sorts NULL values last. Not supported by MySQL.
func (o OrderSpecifier) NullsLast() OrderSpecifier {
	o.nulls = NullsLast
	return o
}

// String renders the item, e.g. "m.age DESC NULLS LAST".
func (o OrderSpecifier) String() string {
	s := o.target + " " + o.order.String()
	switch o.nulls {
	case NullsFirst:
		s += " NULLS FIRST"
	case NullsLast:
		s += " NULLS LAST"
	}
	return s
}

// Orders renders a list of specifiers, as accepted by types.PageRequest.
func Orders(specs ...OrderSpecifier) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.String()
	}
	return out
}
