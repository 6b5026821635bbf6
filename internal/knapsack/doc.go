// Package knapsack solves small 0/1 knapsack problems by exhaustive search.
//
// The default Solver enumerates every ordering of the items with Heap's algorithm
// and, for each ordering, fills a bag greedily starting from the last item. The
// heaviest-value bag across all orderings wins. Search cost is O(n! * n), so the
// solver refuses problems above a configurable item limit.
//
// The subset Solver enumerates all 2^n subsets instead and is exact.
package knapsack
