package flatfile

// PackingSlipWidthForTest exposes the packing slip layout width.
var PackingSlipWidthForTest = schemas[TagPackingSlip].Width
