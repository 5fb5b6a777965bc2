package ai

import (
	"strconv"

	"github.com/poiesic/citechat/core"
)

// DocumentsFromNodes maps retrieved nodes into the vendor document list,
// one document per node, order preserved. No filtering or deduplication
// is applied; an empty input yields an empty output.
//
// Each document carries the node's ID and text under the conventional
// "id" and "text" keys. Node metadata is passed through, except keys that
// would shadow the conventional ones.
func DocumentsFromNodes(nodes []core.NodeWithScore) []Document {
	documents := make([]Document, len(nodes))
	for i, node := range nodes {
		document := Document{
			"id":   strconv.FormatUint(uint64(node.Node.Id), 10),
			"text": node.Node.Text,
		}
		for key, value := range node.Node.Metadata {
			if key == "id" || key == "text" {
				continue
			}
			document[key] = value
		}
		documents[i] = document
	}
	return documents
}
