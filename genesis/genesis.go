package genesis

import (
	"github.com/beatoz/burnboost-go/libs/jsonx"
	"github.com/beatoz/burnboost-go/types/crypto"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
	tmtypes "github.com/tendermint/tendermint/types"
	tmtime "github.com/tendermint/tendermint/types/time"
)

func NewGenesisDoc(
	chainID string,
	consensusParams *tmproto.ConsensusParams,
	validators []tmtypes.GenesisValidator,
	appState *GenesisAppState,
) (*tmtypes.GenesisDoc, error) {
	appStateJsonBlob, err := jsonx.Marshal(appState)
	if err != nil {
		return nil, err
	}

	return &tmtypes.GenesisDoc{
		ChainID:         chainID,
		GenesisTime:     tmtime.Now(),
		ConsensusParams: consensusParams,
		Validators:      validators,
		AppState:        appStateJsonBlob,
	}, nil
}

// Hash is the keccak hash of the json encoded app state.
func (ga *GenesisAppState) Hash() ([]byte, error) {
	bz, err := jsonx.Marshal(ga)
	if err != nil {
		return nil, err
	}
	return crypto.DefaultHash(bz), nil
}
