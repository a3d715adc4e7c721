package inspect

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VinceNguyen000/blockchain-assignment1/ledger"
)

type routes interface {
	GetChain(c *gin.Context)
	GetLatest(c *gin.Context)
	GetBlock(c *gin.Context)
	GetValidity(c *gin.Context)
}

type chainHandler[T any] struct {
	chain *ledger.Chain[T]
}

// Validity is the body of GET /api/v1/chain/validity
type Validity struct {
	Valid        bool   `json:"valid"`
	Length       int    `json:"length"`
	InvalidIndex *int   `json:"invalid_index,omitempty"`
	Error        string `json:"error,omitempty"`
}

// GetChain returns the full chain dump
// GET /api/v1/chain
func (h *chainHandler[T]) GetChain(c *gin.Context) {
	c.JSON(http.StatusOK, h.chain.Snapshot())
}

// GetLatest returns the tip of the chain
// GET /api/v1/chain/latest
func (h *chainHandler[T]) GetLatest(c *gin.Context) {
	c.JSON(http.StatusOK, h.chain.Latest())
}

// GetBlock returns a block by its position
// GET /api/v1/chain/blocks/:index
func (h *chainHandler[T]) GetBlock(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index"})
		return
	}

	block, err := h.chain.Block(index)
	if errors.Is(err, ledger.ErrBlockNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Block not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, block)
}

// GetValidity runs a full verification of the chain
// GET /api/v1/chain/validity
func (h *chainHandler[T]) GetValidity(c *gin.Context) {
	res := Validity{Valid: true, Length: h.chain.Len()}

	if err := h.chain.Verify(); err != nil {
		res.Valid = false
		res.Error = err.Error()
		var invalid *ledger.InvalidBlockError
		if errors.As(err, &invalid) {
			res.InvalidIndex = &invalid.Index
		}
	}

	c.JSON(http.StatusOK, res)
}
