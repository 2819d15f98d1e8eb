package model

// RawExample is one labeled row of the source dataset, before remapping.
type RawExample struct {
	Split    string // "train" or "test"
	Row      int    // 0-indexed data row within the split file
	Text     string
	Category string // fine-grained category name
}

// Example is a remapped, tokenized row ready for training.
type Example struct {
	Split         string
	Row           int
	LabelID       int
	InputIDs      []int64
	AttentionMask []int64
}
