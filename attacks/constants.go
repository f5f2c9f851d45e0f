package attacks

// Precomputed multipliers, indexed by square (a1 = 0). Each one maps every
// subset of the square's blocker mask to a distinct slot of a table with
// 2^popcount(mask) entries.
var rookMagics = [64]uint64{
	0x8a80104000800020, 0x0140002000100040, 0x02801880a0017001, 0x0100081001000420,
	0x0200020010080420, 0x03001c0002010008, 0x8480008002000100, 0x2080088004402900,
	0x0000800098204000, 0x2024401000200040, 0x0100802000801000, 0x0120800800801000,
	0x0208808088000400, 0x0002802200800400, 0x2200800100020080, 0x0801000060821100,
	0x0080044006422000, 0x0100808020004000, 0x12108a0010204200, 0x0140848010000802,
	0x0481828014002800, 0x8094004002004100, 0x4010040010010802, 0x0000020008806104,
	0x0100400080208000, 0x2040002120081000, 0x0021200680100081, 0x0020100080080080,
	0x0002000a00200410, 0x0000020080800400, 0x0080088400100102, 0x0080004600042881,
	0x4040008040800020, 0x0440003000200801, 0x0004200011004500, 0x0188020010100100,
	0x0014800401802800, 0x2080040080800200, 0x0124080204001001, 0x0200046502000484,
	0x0480400080088020, 0x1000422010034000, 0x0030200100110040, 0x0000100021010009,
	0x2002080100110004, 0x0202008004008002, 0x0020020004010100, 0x2048440040820001,
	0x0101002200408200, 0x0040802000401080, 0x4008142004410100, 0x02060820c0120200,
	0x0001001004080100, 0x020c020080040080, 0x2935610830022400, 0x0044440041009200,
	0x0280001040802101, 0x2100190040002085, 0x80c0084100102001, 0x4024081001000421,
	0x00020030a0244872, 0x0012001008414402, 0x02006104900a0804, 0x0001004081002402,
}

var bishopMagics = [64]uint64{
	0x0040040844404084, 0x002004208a004208, 0x0010190041080202, 0x0108060845042010,
	0x0581104180800210, 0x2112080446200010, 0x1080820820060210, 0x03c0808410220200,
	0x0004050404440404, 0x0000021001420088, 0x24d0080801082102, 0x0001020a0a020400,
	0x0000040308200402, 0x0004011002100800, 0x0401484104104005, 0x0801010402020200,
	0x00400210c3880100, 0x0404022024108200, 0x0810018200204102, 0x0004002801a02003,
	0x0085040820080400, 0x810102c808880400, 0x000e900410884800, 0x8002020480840102,
	0x0220200865090201, 0x2010100a02021202, 0x0152048408022401, 0x0020080002081110,
	0x4001001021004000, 0x800040400a011002, 0x00e4004081011002, 0x001c004001012080,
	0x8004200962a00220, 0x8422100208500202, 0x2000402200300c08, 0x8646020080080080,
	0x80020a0200100808, 0x2010004880111000, 0x623000a080011400, 0x42008c0340209202,
	0x0209188240001000, 0x400408a884001800, 0x00110400a6080400, 0x1840060a44020800,
	0x0090080104000041, 0x0201011000808101, 0x1a2208080504f080, 0x8012020600211212,
	0x0500861011240000, 0x0180806108200800, 0x4000020e01040044, 0x300000261044000a,
	0x0802241102020002, 0x0020906061210001, 0x5a84841004010310, 0x0004010801011c04,
	0x000a010109502200, 0x0000004a02012000, 0x500201010098b028, 0x8040002811040900,
	0x0028000010020204, 0x06000020202d0240, 0x8918844842082200, 0x4010011029020020,
}
