package sbl

import (
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/pkg/errors"
)

//GraphvizFormats maps file extensions accepted by RenderEnsemble to graphviz formats.
var GraphvizFormats = map[string]graphviz.Format{
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
	"dot": graphviz.XDOT,
}

//DrawGraph chains the stumps in evaluation order and ends the chain with the decision node.
//The caller closes both returned objects.
func (e *Ensemble) DrawGraph() (*graphviz.Graphviz, *cgraph.Graph, error) {
	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	if err != nil {
		return nil, nil, errors.Wrap(err, "graphviz graph")
	}

	var parentNode *cgraph.Node
	for ind, stump := range e.Stumps {
		currentNode, err := graph.CreateNode(fmt.Sprintf("stump_%d", ind))
		if err != nil {
			return nil, nil, errors.Wrap(err, "graphviz node")
		}
		currentNode.Set("label", stump.GraphDescription(e.Alphas[ind]))
		currentNode.Set("shape", "box")
		if parentNode != nil {
			if _, err := graph.CreateEdge("", parentNode, currentNode); err != nil {
				return nil, nil, errors.Wrap(err, "graphviz edge")
			}
		}
		parentNode = currentNode
	}

	decision, err := graph.CreateNode("decision")
	if err != nil {
		return nil, nil, errors.Wrap(err, "graphviz node")
	}
	decision.Set("label", fmt.Sprintf("score > %6.5f\nsum alpha: %6.5f", e.Threshold, e.SumAlpha()))
	decision.Set("shape", "ellipse")
	if parentNode != nil {
		if _, err := graph.CreateEdge("", parentNode, decision); err != nil {
			return nil, nil, errors.Wrap(err, "graphviz edge")
		}
	}

	return graphViz, graph, nil
}

//Render writes the ensemble graph in the given format.
func (e *Ensemble) Render(w io.Writer, format graphviz.Format) (err error) {
	graphViz, graph, err := e.DrawGraph()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := graph.Close(); err == nil {
			err = closeErr
		}
		if closeErr := graphViz.Close(); err == nil {
			err = closeErr
		}
	}()
	return errors.Wrap(graphViz.Render(graph, format, w), "graphviz render")
}

//RenderEnsemble renders the ensemble graph into a file; figureType is one of GraphvizFormats.
func (e *Ensemble) RenderEnsemble(filename, figureType string) (err error) {
	format, ok := GraphvizFormats[figureType]
	if !ok {
		return configurationf("unknown figure type %q", figureType)
	}
	graphViz, graph, err := e.DrawGraph()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := graph.Close(); err == nil {
			err = closeErr
		}
		if closeErr := graphViz.Close(); err == nil {
			err = closeErr
		}
	}()
	return errors.Wrap(graphViz.RenderFilename(graph, format, filename), "graphviz render")
}
