package customdata

// ToBlock copies element srcIndex of every src column into the matching
// layer of blk. When useDefaults is set, layers of dst with no source
// column are reset to their default value; otherwise they are left as is.
// blk is allocated when nil.
func ToBlock(src *Data, dst *BlockData, srcIndex int, blk *Block, useDefaults bool) {
	if *blk == nil {
		*blk = dst.Alloc()
	}
	b := *blk
	for _, l := range dst.Layers {
		info := Info(l.Type)
		col := src.NamedLayer(l.Type, l.Name)
		if col == nil || col.Data == nil {
			if useDefaults {
				if info.Default != nil {
					copy(b[l.Offset:l.Offset+info.Size], info.Default)
				} else {
					clear(b[l.Offset : l.Offset+info.Size])
				}
			}
			continue
		}
		copy(b[l.Offset:l.Offset+info.Size], col.elem(srcIndex))
	}
}

// FromBlock copies every layer of blk that dst has a column for into
// element dstIndex of that column.
func FromBlock(src *BlockData, dst *Data, blk Block, dstIndex int) {
	for i := range dst.Layers {
		col := &dst.Layers[i]
		if col.Data == nil {
			continue
		}
		l := src.match(col.Type, col.Name, col.UID)
		if l == nil {
			continue
		}
		size := Info(col.Type).Size
		copy(col.elem(dstIndex), blk[l.Offset:l.Offset+size])
	}
}
