package btreeindex

// pageIDSize is the on-disk width, in bytes, of a bufferpool.PageID.
const pageIDSize = 4
