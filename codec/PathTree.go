/*
Copyright 2020-2026 The XKC authors
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package codec

import (
	"fmt"
	"strings"
)

const (
	// _TREE_NIL marks an absent child or parent link in the node arena
	_TREE_NIL = int32(-1)

	// _MAX_PATH_BITS bounds the path length; the alphabet holds at most 256
	// symbols so no node can sit deeper than 256 levels
	_MAX_PATH_BITS = 256
)

// BitPath is a fixed capacity bit set holding one left/right direction per
// tree level. Bit i is the direction taken at depth i: 0 = left, 1 = right.
type BitPath [_MAX_PATH_BITS / 64]uint64

// Bit returns bit i of the path
func (bp *BitPath) Bit(i int) int {
	return int(bp[i>>6]>>(uint(i)&63)) & 1
}

// SetBit sets bit i of the path to the least significant bit of v
func (bp *BitPath) SetBit(i int, v int) {
	if v&1 != 0 {
		bp[i>>6] |= uint64(1) << (uint(i) & 63)
	} else {
		bp[i>>6] &^= uint64(1) << (uint(i) & 63)
	}
}

// PathInfo locates a node in the tree: the number of edges from the root and
// the left/right direction taken at each level.
type PathInfo struct {
	Path  BitPath
	Depth int
}

type treeNode struct {
	parent int32
	left   int32
	right  int32
	value  uint32
	empty  bool // true only for a root that has not received a value yet
}

// Tree is the balanced path tree. Nodes live in an arena and reference each
// other by index; the root is always index 0. Symbols must be inserted in
// descending frequency order: the most balanced insertion rule only uses
// insertion order to decide shape, so earlier symbols end up shallower.
type Tree struct {
	nodes []treeNode
}

// NewTree creates a tree holding a single empty root node
func NewTree() *Tree {
	this := &Tree{}
	this.nodes = make([]treeNode, 1, 16)
	this.nodes[0] = treeNode{parent: _TREE_NIL, left: _TREE_NIL, right: _TREE_NIL, empty: true}
	return this
}

func (this *Tree) newNode(parent int32, value uint32) int32 {
	idx := int32(len(this.nodes))
	this.nodes = append(this.nodes, treeNode{parent: parent, left: _TREE_NIL, right: _TREE_NIL, value: value})
	return idx
}

// Insert places a new node for the given value. The first value fills the
// empty root; later values descend from the root, filling the left child
// slot before the right one and otherwise following the subtree with the
// smaller node count (ties go left).
func (this *Tree) Insert(value uint32) {
	if this.nodes[0].empty {
		this.nodes[0].value = value
		this.nodes[0].empty = false
		return
	}

	this.insert(0, value)
}

func (this *Tree) insert(parent int32, value uint32) {
	if this.nodes[parent].left == _TREE_NIL {
		this.nodes[parent].left = this.newNode(parent, value)
		return
	}

	if this.nodes[parent].right == _TREE_NIL {
		this.nodes[parent].right = this.newNode(parent, value)
		return
	}

	if this.countNodes(this.nodes[parent].left) <= this.countNodes(this.nodes[parent].right) {
		this.insert(this.nodes[parent].left, value)
	} else {
		this.insert(this.nodes[parent].right, value)
	}
}

// countNodes returns the number of descendants below node n
func (this *Tree) countNodes(n int32) int {
	result := 0

	if l := this.nodes[n].left; l != _TREE_NIL {
		result += this.countNodes(l) + 1
	}

	if r := this.nodes[n].right; r != _TREE_NIL {
		result += this.countNodes(r) + 1
	}

	return result
}

// Size returns the number of values stored in the tree
func (this *Tree) Size() int {
	if this.nodes[0].empty {
		return 0
	}

	return len(this.nodes)
}

// Height returns the maximum root-to-leaf edge count (0 for a lone root).
// Computed by full traversal on demand.
func (this *Tree) Height() int {
	return this.height(0)
}

func (this *Tree) height(n int32) int {
	heightLeft, heightRight := 0, 0

	if l := this.nodes[n].left; l != _TREE_NIL {
		heightLeft = this.height(l) + 1
	}

	if r := this.nodes[n].right; r != _TREE_NIL {
		heightRight = this.height(r) + 1
	}

	if heightLeft >= heightRight {
		return heightLeft
	}

	return heightRight
}

// depth returns the number of edges from node n up to the root, following
// parent links
func (this *Tree) depth(n int32) int {
	result := 0

	for p := this.nodes[n].parent; p != _TREE_NIL; p = this.nodes[p].parent {
		result++
	}

	return result
}

// PathInfo fills pi with the depth and bit path of the node holding the
// given value. Returns false if the value is not in the tree; for values
// drawn from the alphabet the tree was built from this never happens.
func (this *Tree) PathInfo(pi *PathInfo, value uint32) bool {
	return this.pathInfo(pi, 0, value)
}

func (this *Tree) pathInfo(pi *PathInfo, n int32, value uint32) bool {
	node := &this.nodes[n]
	depth := this.depth(n)

	if !node.empty && node.value == value {
		pi.Depth = depth
		return true
	}

	if node.left != _TREE_NIL && this.pathInfo(pi, node.left, value) {
		pi.Path.SetBit(depth, 0)
		return true
	}

	// Trying the right branch: set the bit, clear it again on failure so no
	// residue from this subtree survives the backtrack
	pi.Path.SetBit(depth, 1)

	if node.right != _TREE_NIL && this.pathInfo(pi, node.right, value) {
		return true
	}

	pi.Path.SetBit(depth, 0)
	return false
}

// FindValue walks the path from the root, consuming one direction bit per
// level, and returns the value at the destination node. It is the exact
// inverse of PathInfo. A path leading to an absent node means the bitstream
// does not match the tree and is reported as corruption.
func (this *Tree) FindValue(pi *PathInfo) (uint32, error) {
	current := int32(0)

	for depth := 0; depth < pi.Depth; depth++ {
		if pi.Path.Bit(depth) != 0 {
			current = this.nodes[current].right
		} else {
			current = this.nodes[current].left
		}

		if current == _TREE_NIL {
			return 0, &Error{msg: fmt.Sprintf("Invalid bitstream: no node at depth %d of path", depth+1), code: ERR_TREE_LOOKUP}
		}
	}

	if this.nodes[current].empty {
		return 0, &Error{msg: "Invalid bitstream: path leads to an empty node", code: ERR_TREE_LOOKUP}
	}

	return this.nodes[current].value, nil
}

// DotFormat renders the tree in Graphviz format for debugging. Each label
// shows the node value and its depth.
func (this *Tree) DotFormat() string {
	var sb strings.Builder
	sb.WriteString("strict graph {")
	this.dotFormat(&sb, 0)
	sb.WriteString("\n}")
	return sb.String()
}

func (this *Tree) dotFormat(sb *strings.Builder, n int32) {
	node := &this.nodes[n]

	if node.left != _TREE_NIL {
		fmt.Fprintf(sb, "\n\"%d - %d\" -- \"%d - %d\" [label=0]",
			node.value, this.depth(n), this.nodes[node.left].value, this.depth(node.left))
		this.dotFormat(sb, node.left)
	}

	if node.right != _TREE_NIL {
		fmt.Fprintf(sb, "\n\"%d - %d\" -- \"%d - %d\" [label=1]",
			node.value, this.depth(n), this.nodes[node.right].value, this.depth(node.right))
		this.dotFormat(sb, node.right)
	}
}
