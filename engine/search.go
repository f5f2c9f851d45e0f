package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"magic-engine/board"
)

// Searcher owns every piece of mutable search state. It is not safe for
// concurrent searches; Stop may be called from any goroutine.
type Searcher struct {
	opts Options
	eval Evaluator

	tt       *TransTable
	killers  KillerStruct
	history  historyTable
	counters counterTable
	stack    StateStack
	game     []State
	stats    CutStatistics
	time     TimeHandler

	ctx       context.Context
	nodes     uint64
	nodeLimit uint64
	selDepth  int
	rootScore int32
	stopFlag  atomic.Bool
	stopped   bool

	lists  [MaxPly + 1]board.MoveList
	scored [MaxPly + 1][]scoredMove
	quiets [MaxPly + 1][]board.Move
}

func NewSearcher(opts Options, ev Evaluator) *Searcher {
	s := &Searcher{
		opts: opts,
		eval: ev,
		tt:   NewTransTable(opts.HashMB),
	}
	for i := range s.scored {
		s.scored[i] = make([]scoredMove, 0, 64)
		s.quiets[i] = make([]board.Move, 0, 32)
	}
	return s
}

func (s *Searcher) Options() Options { return s.opts }

// SetOptions replaces the options; the table is reallocated when its size changes.
func (s *Searcher) SetOptions(opts Options) {
	if opts.HashMB != s.opts.HashMB {
		s.tt.Resize(opts.HashMB)
	}
	s.opts = opts
}

func (s *Searcher) SetEvaluator(ev Evaluator) { s.eval = ev }

// Stop asks a running search to return as soon as possible.
func (s *Searcher) Stop() { s.stopFlag.Store(true) }

// NewGame forgets everything learned in earlier searches.
func (s *Searcher) NewGame() {
	s.tt.Clear()
	s.killers.ClearKillers()
	s.history.clear()
	s.counters.clear()
	s.game = s.game[:0]
}

// SetHistory records the hashes of the positions that preceded the
// position to be searched, oldest first. rule50 is the halfmove clock of
// the last of them.
func (s *Searcher) SetHistory(hashes []uint64, rule50 int) {
	s.game = s.game[:0]
	for i, h := range hashes {
		s.game = append(s.game, State{Hash: h, Rule50: Max(rule50-(len(hashes)-1-i), 0)})
	}
}

// Stats returns the cut statistics of the last search.
func (s *Searcher) Stats() CutStatistics { return s.stats }

func (s *Searcher) TT() *TransTable { return s.tt }

func (s *Searcher) Nodes() uint64 { return s.nodes }

// Search runs iterative deepening on a copy of pos until a limit is hit,
// the context is cancelled or Stop is called.
func (s *Searcher) Search(ctx context.Context, pos *board.Position, limits Limits) Result {
	p := pos.Copy()
	s.ctx = ctx
	s.stopFlag.Store(false)
	s.stopped = false
	s.nodes = 0
	s.selDepth = 0
	s.nodeLimit = limits.Nodes
	s.stats = CutStatistics{}
	s.killers.ClearKillers()
	s.time.StartTime(p, limits, s.opts.MoveOverhead)

	s.stack.Reset()
	for _, st := range s.game {
		s.stack.Push(st.Hash, st.Rule50)
	}
	s.stack.Push(p.Hash(), p.HalfmoveClock())

	if !p.HasLegalMoves() {
		res := Result{Move: board.NoMove, Score: DrawScore}
		if p.OurKingInCheck() {
			res.Score = -MaxScore
		}
		return res
	}

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxPly {
		maxDepth = MaxPly
	}

	var (
		best      Result
		completed bool
		pvLine    PVLine
		prevScore int32
	)

	for depth := 1; depth <= maxDepth; depth++ {
		if depth > 1 && s.time.SoftTimeExceeded() {
			break
		}

		alpha, beta := -MaxScore, MaxScore
		window := s.opts.AspirationWindow
		if depth > 1 && window > 0 {
			alpha = Max(prevScore-window, -MaxScore)
			beta = Min(prevScore+window, MaxScore)
		}

		var score int32
		retries := 0
		for {
			s.rootScore = -MaxScore
			score = s.alphabeta(p, alpha, beta, int8(depth), 0, &pvLine, board.NoMove, false)
			if s.stopped {
				break
			}
			if score > alpha && score < beta {
				break
			}
			if alpha <= -MaxScore && beta >= MaxScore {
				break
			}
			// Aspiration window re-search
			retries++
			if retries > s.opts.MaxAspirationRetries {
				alpha, beta = -MaxScore, MaxScore
				continue
			}
			window *= 2
			alpha = Max(score-window, -MaxScore)
			beta = Min(score+window, MaxScore)
		}

		if s.stopped {
			if !completed && len(pvLine.Moves) > 0 {
				best = Result{Move: pvLine.Moves[0], Score: s.rootScore, Depth: depth, PV: pvLine.Clone().Moves}
			}
			break
		}

		pv := pvLine.Clone().Moves
		if IsMateScore(score) {
			pv = validatePV(p, pv)
		}
		if len(pv) == 0 {
			break
		}

		if completed && pv[0] != best.Move {
			// Unstable best move requires more time usage
			s.time.ExtendTime()
		}
		completed = true
		prevScore = score
		best = Result{Move: pv[0], Score: score, Depth: depth, SelDepth: s.selDepth, PV: pv}

		elapsed := s.time.Elapsed()
		info := Info{
			Depth:    depth,
			SelDepth: s.selDepth,
			Score:    score,
			MateIn:   MateIn(score),
			Nodes:    s.nodes,
			NPS:      nps(s.nodes, elapsed),
			Time:     elapsed,
			Hashfull: s.tt.Hashfull(),
			PV:       pv,
		}
		log.Debug().
			Int("depth", depth).
			Str("score", FormatScore(score)).
			Uint64("nodes", s.nodes).
			Dur("elapsed", elapsed).
			Str("pv", PVString(p, pv)).
			Msg("search-iteration")
		if s.opts.OnInfo != nil {
			s.opts.OnInfo(info)
		}

		// A mate within the searched horizon will not change.
		if IsMateScore(score) && int(MaxScore-Abs(score)) <= depth {
			break
		}
	}

	if best.Move == board.NoMove {
		legal := p.GenerateLegalMoves()
		best = Result{Move: legal[0], PV: []board.Move{legal[0]}}
	}
	best.Nodes = s.nodes
	best.Time = s.time.Elapsed()
	best.MateIn = MateIn(best.Score)

	log.Debug().Object("cuts", s.stats).Uint64("nodes", s.nodes).Msg("search-done")
	return best
}

func nps(nodes uint64, elapsed time.Duration) uint64 {
	if elapsed <= 0 {
		return 0
	}
	return uint64(float64(nodes) / elapsed.Seconds())
}

// checkStop polls the stop conditions; the clock and context only every
// 4096 nodes.
func (s *Searcher) checkStop() bool {
	if s.stopped {
		return true
	}
	if s.nodeLimit > 0 && s.nodes >= s.nodeLimit {
		s.stopped = true
		return true
	}
	if s.nodes&4095 == 0 {
		if s.stopFlag.Load() || s.time.TimeStatus() {
			s.stopped = true
		} else if s.ctx != nil {
			select {
			case <-s.ctx.Done():
				s.stopped = true
			default:
			}
		}
	}
	return s.stopped
}

func (s *Searcher) evaluate(p *board.Position) int32 {
	return Clamp(int32(s.eval.Evaluate(p)), -MaxEval, MaxEval)
}

// drawScore is the value of a repetition: slightly negative when the side
// to move stands better, so it keeps playing for a win.
func (s *Searcher) drawScore(p *board.Position) int32 {
	if s.evaluate(p) > 0 {
		return -s.opts.Contempt
	}
	return DrawScore
}

func (s *Searcher) alphabeta(p *board.Position, alpha int32, beta int32, depth int8, ply int8, pvLine *PVLine, prevMove board.Move, didNull bool) int32 {
	pvLine.Clear()
	if s.checkStop() {
		return 0
	}
	s.nodes++

	if int(ply) > s.selDepth {
		s.selDepth = int(ply)
	}
	if ply >= MaxPly {
		return s.evaluate(p)
	}

	/* INIT KEY VARIABLES */
	isPVNode := beta-alpha > 1
	isRoot := ply == 0

	// Draw detection
	if !isRoot {
		if p.HalfmoveClock() >= 100 || p.IsInsufficientMaterial() {
			return DrawScore
		}
		if s.stack.isDraw() {
			return s.drawScore(p)
		}
	}

	inCheck := p.OurKingInCheck()

	// Check extension
	if inCheck {
		depth++
	}

	// Quiescence at leaf nodes
	if depth <= 0 {
		return s.quiescence(p, alpha, beta, ply)
	}

	hash := p.Hash()

	/*
		TRANSPOSITION TABLE LOOKUP
	*/
	usable, ttScore, ttMove := s.tt.Probe(hash, depth, ply, alpha, beta)
	if usable && !isRoot && !isPVNode {
		s.stats.TTCutoffs++
		return ttScore
	}

	var staticScore int32
	if !inCheck {
		staticScore = s.evaluate(p)
	}
	improving := ply >= 2 && !inCheck && staticScore > alpha

	/*
		If our position is so good that even after giving a margin to the opponent,
		we still beat beta, we can safely prune.
		Applied at depths 1-7, NOT in PV nodes or when in check.
	*/
	if !inCheck && !isPVNode && !isRoot && depth <= 7 && Abs(beta) < Checkmate {
		rfpMargin := s.opts.RFPMargins[depth]
		if !improving {
			rfpMargin -= 50 // More aggressive when not improving
		}
		if staticScore-rfpMargin >= beta {
			s.stats.StaticNullCutoffs++
			s.tt.Store(hash, depth, ply, staticScore-rfpMargin, ttMove, BetaFlag)
			return staticScore - rfpMargin
		}
	}

	/*
		RAZORING
		Hopeless positions at shallow depth only get a capture search.
	*/
	if !inCheck && !isPVNode && !isRoot && depth <= 3 && Abs(alpha) < Checkmate {
		if staticScore+s.opts.RazoringMargins[depth] <= alpha {
			score := s.quiescence(p, alpha, alpha+1, ply)
			if s.stopped {
				return 0
			}
			if score <= alpha {
				s.stats.RazoringCutoffs++
				return score
			}
		}
	}

	/*
		NULL MOVE PRUNING
	*/
	if !inCheck && !isPVNode && !didNull && !isRoot && depth >= s.opts.NullMoveMinDepth && p.NonPawnMaterial(p.SideToMove()) {
		// More aggressive reduction: R = 3 + depth/3, with bonus for high depth
		R := 3 + depth/3
		if depth > 6 {
			R++
		}
		// Ensure we don't reduce below depth 1
		if R > depth-1 {
			R = depth - 1
		}

		var nullPV PVLine
		nst := p.MakeNullMove()
		s.stack.Push(p.Hash(), 0)
		score := -s.alphabeta(p, -beta, -beta+1, depth-1-R, ply+1, &nullPV, board.NoMove, true)
		s.stack.Pop()
		p.UnmakeNullMove(nst)
		if s.stopped {
			return 0
		}

		if score >= beta && score < Checkmate {
			s.stats.NullMoveCutoffs++
			if depth <= 10 {
				s.tt.Store(hash, depth, ply, score, ttMove, BetaFlag)
				return score
			}
			// Verification search at high depths
			verifyScore := s.alphabeta(p, beta-1, beta, depth-1-R, ply, &nullPV, prevMove, true)
			if s.stopped {
				return 0
			}
			if verifyScore >= beta {
				s.tt.Store(hash, depth, ply, verifyScore, ttMove, BetaFlag)
				return verifyScore
			}
		}
	}

	/*
	   INTERNAL ITERATIVE DEEPENING
	   When we have no TT move at sufficient depth, do a reduced search to find one.
	*/
	if ttMove == board.NoMove && depth >= 5 && !didNull {
		reducedDepth := depth - 2
		if depth >= 8 {
			reducedDepth = depth - depth/4
		}

		var iidPV PVLine
		s.alphabeta(p, alpha, beta, reducedDepth, ply, &iidPV, prevMove, false)
		if s.stopped {
			return 0
		}
		ttMove = s.tt.ProbeMove(hash)
	}

	// Generate and score moves
	ml := &s.lists[ply]
	ml.Clear()
	p.GeneratePseudoMovesInto(ml)
	moves := s.scoreMoves(p, ml, s.scored[ply], ply, ttMove, prevMove)
	s.scored[ply] = moves

	side := p.SideToMove()
	bestScore := -MaxScore
	bestMove := board.NoMove
	ttFlag := AlphaFlag
	legalMoves := 0
	quietsTried := s.quiets[ply][:0]
	var childPVLine PVLine

	for index := range moves {
		orderNextMove(index, moves)
		move := moves[index].move

		ok, st := p.MakeMove(move)
		if !ok {
			continue
		}
		legalMoves++

		givesCheck := p.OurKingInCheck()
		// Tactical = capture, check, or promotion
		tactical := move.IsCapture() || move.IsPromotion() || givesCheck

		if !isPVNode && !isRoot && !inCheck && !tactical && legalMoves > 1 {
			/*
				LATE MOVE PRUNING:
				Skip quiet moves late in the move list at low depths.
			*/
			if depth <= 8 {
				lmpMargin := s.opts.LateMovePruningMargins[depth]
				if !improving {
					lmpMargin = lmpMargin * 2 / 3
				}
				if lmpMargin > 0 && legalMoves > lmpMargin {
					s.stats.LateMovePrunes++
					p.UnmakeMove(move, st)
					continue
				}
			}

			/*
				At depths 1-7, if static eval + margin can't beat alpha, prune quiet moves.
			*/
			if depth <= 7 && Abs(alpha) < Checkmate {
				futilityMargin := s.opts.FutilityMargins[depth]
				if !improving {
					futilityMargin -= 50
				}
				if staticScore+futilityMargin <= alpha {
					s.stats.FutilityPrunes++
					p.UnmakeMove(move, st)
					continue
				}
			}
		}

		s.stack.Push(p.Hash(), p.HalfmoveClock())

		var score int32
		if legalMoves == 1 {
			// First move: full-depth, full-window search
			score = -s.alphabeta(p, -beta, -alpha, depth-1, ply+1, &childPVLine, move, false)
		} else {
			/*
				LATE MOVE REDUCTIONS
			*/
			var reduct int8
			if !isPVNode && !inCheck && !tactical && legalMoves > s.opts.LMRMoveLimit && depth >= s.opts.LMRDepthLimit {
				reduct = lmrReduction(depth, legalMoves, s.killers.IsKiller(move, ply) >= 0, s.history.Score(side, move))
				reduct = Min(reduct, depth-1)
			}
			score = s.searchMoveWithPVS(p, move, depth-1, reduct, alpha, beta, ply, &childPVLine)
		}

		s.stack.Pop()
		p.UnmakeMove(move, st)

		if s.stopped {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move
		}

		// Beta cutoff
		if score >= beta {
			s.stats.BetaCutoffs++
			ttFlag = BetaFlag
			if move.IsQuiet() {
				// Store killer and counter moves
				s.killers.InsertKiller(move, ply)
				s.counters.store(side, prevMove, move)

				// History bonus for the good move
				s.history.increment(side, move, depth)

				// History malus for all quiet moves that didn't work
				for _, failedMove := range quietsTried {
					s.history.decrement(side, failedMove, depth)
				}
			}
			break
		}

		// Alpha improvement
		if score > alpha {
			alpha = score
			ttFlag = ExactFlag
			pvLine.Update(move, childPVLine)
			if isRoot {
				s.rootScore = score
			}

			if move.IsQuiet() {
				s.history.increment(side, move, depth)
			}
		}

		if move.IsQuiet() {
			quietsTried = append(quietsTried, move)
		}
	}
	s.quiets[ply] = quietsTried

	// Checkmate/stalemate check
	if legalMoves == 0 {
		if inCheck {
			return -MaxScore + int32(ply)
		}
		return DrawScore
	}

	s.tt.Store(hash, depth, ply, bestScore, bestMove, ttFlag)
	return bestScore
}

func (s *Searcher) quiescence(p *board.Position, alpha int32, beta int32, ply int8) int32 {
	if s.checkStop() {
		return 0
	}
	s.nodes++

	if int(ply) > s.selDepth {
		s.selDepth = int(ply)
	}
	if ply >= MaxPly {
		return s.evaluate(p)
	}

	inCheck := p.OurKingInCheck()

	var standPat int32
	bestScore := -MaxScore // Must escape check

	// Stand-pat pruning (not when in check)
	if !inCheck {
		standPat = s.evaluate(p)
		if standPat >= beta {
			s.stats.QStandPatCutoffs++
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
		bestScore = standPat
	}

	// Generate moves: all moves when in check, only captures otherwise
	ml := &s.lists[ply]
	ml.Clear()
	if inCheck {
		p.GeneratePseudoMovesInto(ml)
	} else {
		p.GeneratePseudoCapturesInto(ml)
	}
	moves := scoreCaptures(p, ml, s.scored[ply])
	s.scored[ply] = moves

	legalMoves := 0
	for index := range moves {
		orderNextMove(index, moves)
		move := moves[index].move

		if !inCheck {
			promo := move.PromotionType()
			if promo != board.NoPieceType && promo != board.Queen {
				continue
			}

			// SEE pruning first
			if see(p, move) < -s.opts.QuiescenceSeeMargin {
				s.stats.QSeePrunes++
				continue
			}

			/*
				DELTA PRUNING
				If the capture + a margin still can't beat alpha, skip it.
			*/
			var moveGain int32
			if move.IsCapture() {
				moveGain = int32(SeePieceValue[capturedType(p, move)])
			}
			if promo != board.NoPieceType {
				moveGain += int32(SeePieceValue[promo] - SeePieceValue[board.Pawn])
			}
			if standPat+moveGain+s.opts.DeltaMargin < alpha {
				s.stats.QDeltaPrunes++
				continue
			}
		}

		ok, st := p.MakeMove(move)
		if !ok {
			continue
		}
		legalMoves++

		score := -s.quiescence(p, -beta, -alpha, ply+1)
		p.UnmakeMove(move, st)

		if s.stopped {
			return 0
		}

		if score > bestScore {
			bestScore = score
		}
		if score >= beta {
			s.stats.QBetaCutoffs++
			return score
		}
		if score > alpha {
			alpha = score
		}
	}

	// If in check and no moves, it's checkmate
	if inCheck && legalMoves == 0 {
		return -MaxScore + int32(ply)
	}
	return bestScore
}

// searchMoveWithPVS performs a Principal Variation Search for a move
// This implements the standard PVS 3-stage pattern:
// 1. Search with reduced depth using null window
// 2. If reduction was applied and score > alpha, re-search at full depth with null window
// 3. If score is between alpha and beta, do a full window search
func (s *Searcher) searchMoveWithPVS(p *board.Position, move board.Move, baseDepth int8, reduction int8,
	alpha int32, beta int32, ply int8, childPVLine *PVLine) int32 {

	// Stage 1: Reduced depth null-window search
	nextDepth := calculateSearchDepth(baseDepth, reduction)
	score := -s.alphabeta(p, -(alpha + 1), -alpha, nextDepth, ply+1, childPVLine, move, false)

	// Stage 2: Re-search at full depth if we had a reduction and score > alpha
	if score > alpha && reduction > 0 {
		score = -s.alphabeta(p, -(alpha + 1), -alpha, baseDepth, ply+1, childPVLine, move, false)
	}

	// Stage 3: Full window search if score is in (alpha, beta) window
	if score > alpha && score < beta {
		score = -s.alphabeta(p, -beta, -alpha, baseDepth, ply+1, childPVLine, move, false)
	}

	return score
}
