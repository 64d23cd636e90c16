package gpu

// MatMulKernelName is the entry point of MatMulKernelSource.
const MatMulKernelName = "matrix_mul"

// MatMulBuildOptions are passed to Context.Compile for MatMulKernelSource.
const MatMulBuildOptions = "-cl-std=CL1.2"

// MatMulKernelSource computes one element of C = A×B per work-item. Global
// id 0 is the row and global id 1 the column; the inner sum runs over k
// ascending, the same order as the sequential multiplier.
const MatMulKernelSource = `
__kernel void matrix_mul(__global const float* A,
                         __global const float* B,
                         __global float* C,
                         const int N)
{
    int i = get_global_id(0);
    int j = get_global_id(1);
    float sum = 0.0f;
    for (int k = 0; k < N; k++)
    {
        sum += A[i * N + k] * B[k * N + j];
    }
    C[i * N + j] = sum;
}
`
