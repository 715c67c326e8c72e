package meteoradbc

import "github.com/gagliardetto/solana-go"

const (
	METEORA_DBC_PROGRAM_ID = "dbcij3LWUppWqq96dh6gJWwBifmcGfLSB5D4DuSMaqN"

	ProtocolName = "meteora_dbc"
)

var MeteoraDBCProgramID = solana.MustPublicKeyFromBase58(METEORA_DBC_PROGRAM_ID)
